package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
)

type ItemService struct {
	itemRepo repository.ItemRepository
	client   *ddragon.Client
	versions *ddragon.VersionCache
}

func NewItemService(itemRepo repository.ItemRepository, client *ddragon.Client, versions *ddragon.VersionCache) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		client:   client,
		versions: versions,
	}
}

// views maps items using one version lookup for the whole batch.
func (s *ItemService) views(ctx context.Context, items []*domain.Item) []ItemView {
	version := s.versions.Current(ctx)
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		v := ItemView{
			ID:            item.ID,
			RiotItemID:    item.RiotItemID,
			Name:          item.Name,
			Description:   item.Description,
			IconPath:      item.IconPath,
			TotalGold:     item.TotalGold,
			Tags:          itemTags(item),
			IsPurchasable: item.IsPurchasable,
			IsCompleted:   item.IsCompleted,
		}
		if item.IconPath != "" {
			url := s.client.ItemImageURL(version, item.IconPath)
			v.IconURL = &url
		}
		out = append(out, v)
	}
	return out
}

func (s *ItemService) one(ctx context.Context, item *domain.Item) *ItemView {
	v := s.views(ctx, []*domain.Item{item})[0]
	return &v
}

// GetPurchasable lists purchasable items ordered by name.
func (s *ItemService) GetPurchasable(ctx context.Context) ([]ItemView, error) {
	items, err := s.itemRepo.GetPurchasable(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

func (s *ItemService) GetCompleted(ctx context.Context) ([]ItemView, error) {
	items, err := s.itemRepo.GetCompleted(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

func (s *ItemService) GetByID(ctx context.Context, id int) (*ItemView, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.one(ctx, item), nil
}

func (s *ItemService) GetByRiotID(ctx context.Context, riotID int) (*ItemView, error) {
	item, err := s.itemRepo.GetByRiotID(ctx, riotID)
	if err != nil {
		return nil, err
	}
	return s.one(ctx, item), nil
}

// Search matches item names case-insensitively. A blank term matches
// nothing.
func (s *ItemService) Search(ctx context.Context, term string) ([]ItemView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []ItemView{}, nil
	}
	items, err := s.itemRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

// GetByRiotIDs resolves a comma-separated id list such as "1055,3006".
// Unparseable and unknown ids are skipped; the input order is kept.
func (s *ItemService) GetByRiotIDs(ctx context.Context, ids string) ([]ItemView, error) {
	var riotIDs []int
	for _, part := range strings.Split(ids, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		riotIDs = append(riotIDs, id)
	}
	if len(riotIDs) == 0 {
		return []ItemView{}, nil
	}

	items, err := s.itemRepo.GetByRiotIDs(ctx, riotIDs)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, items), nil
}

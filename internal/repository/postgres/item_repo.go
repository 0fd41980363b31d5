package postgres

import (
	"context"
	"errors"

	"github.com/dom/matchup-companion/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *itemRepository {
	return &itemRepository{db: db}
}

// Upsert inserts the item or overwrites the stored row with the same riot
// id. The primary key of an existing row is kept.
func (r *itemRepository) Upsert(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "riot_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "icon_path", "total_gold", "is_purchasable",
			"is_completed", "tags", "builds_from", "builds_into", "updated_at",
		}),
	}).Create(item).Error
}

func (r *itemRepository) GetPurchasable(ctx context.Context) ([]*domain.Item, error) {
	var items []*domain.Item
	err := r.db.WithContext(ctx).Where("is_purchasable = ?", true).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetCompleted(ctx context.Context) ([]*domain.Item, error) {
	var items []*domain.Item
	err := r.db.WithContext(ctx).
		Where("is_completed = ? AND is_purchasable = ?", true, true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetByRiotID(ctx context.Context, riotID int) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).First(&item, "riot_item_id = ?", riotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetByRiotIDs returns the stored items in the order of riotIDs. Unknown
// ids are skipped and duplicates repeat.
func (r *itemRepository) GetByRiotIDs(ctx context.Context, riotIDs []int) ([]*domain.Item, error) {
	if len(riotIDs) == 0 {
		return []*domain.Item{}, nil
	}

	var found []*domain.Item
	if err := r.db.WithContext(ctx).Where("riot_item_id IN ?", riotIDs).Find(&found).Error; err != nil {
		return nil, err
	}

	byRiotID := make(map[int]*domain.Item, len(found))
	for _, item := range found {
		byRiotID[item.RiotItemID] = item
	}

	items := make([]*domain.Item, 0, len(riotIDs))
	for _, id := range riotIDs {
		if item, ok := byRiotID[id]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *itemRepository) SearchByName(ctx context.Context, term string) ([]*domain.Item, error) {
	var items []*domain.Item
	err := r.db.WithContext(ctx).
		Where("is_purchasable = ? AND name ILIKE ?", true, "%"+escapeLike(term)+"%").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).Count(&count).Error
	return count, err
}

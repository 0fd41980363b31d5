package service

import (
	"context"
	"sort"

	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
)

type RuneService struct {
	runeRepo repository.RuneRepository
	client   *ddragon.Client
}

func NewRuneService(runeRepo repository.RuneRepository, client *ddragon.Client) *RuneService {
	return &RuneService{
		runeRepo: runeRepo,
		client:   client,
	}
}

func (s *RuneService) view(r *domain.Rune) RuneView {
	v := RuneView{
		ID:               r.ID,
		RiotRuneID:       r.RiotRuneID,
		Key:              r.Key,
		Name:             r.Name,
		IconPath:         r.IconPath,
		TreeName:         r.TreeName,
		TreeID:           r.TreeID,
		SlotIndex:        r.SlotIndex,
		ShortDescription: r.ShortDescription,
	}
	if r.IconPath != "" {
		url := s.client.RuneIconURL(r.IconPath)
		v.IconURL = &url
	}
	return v
}

func (s *RuneService) views(runes []*domain.Rune) []RuneView {
	out := make([]RuneView, 0, len(runes))
	for _, r := range runes {
		out = append(out, s.view(r))
	}
	return out
}

// GetAll lists runes ordered by tree, slot and name.
func (s *RuneService) GetAll(ctx context.Context) ([]RuneView, error) {
	runes, err := s.runeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(runes), nil
}

func (s *RuneService) GetByID(ctx context.Context, id int) (*RuneView, error) {
	r, err := s.runeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(r)
	return &v, nil
}

func (s *RuneService) GetKeystones(ctx context.Context) ([]RuneView, error) {
	runes, err := s.runeRepo.GetKeystones(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(runes), nil
}

func (s *RuneService) GetByTree(ctx context.Context, treeID int) ([]RuneView, error) {
	runes, err := s.runeRepo.GetByTree(ctx, treeID)
	if err != nil {
		return nil, err
	}
	return s.views(runes), nil
}

func (s *RuneService) GetByTreeAndSlot(ctx context.Context, treeID, slotIndex int) ([]RuneView, error) {
	runes, err := s.runeRepo.GetByTreeAndSlot(ctx, treeID, slotIndex)
	if err != nil {
		return nil, err
	}
	return s.views(runes), nil
}

// GetTrees groups every rune by tree, splitting keystones from the three
// minor slots. Trees are ordered by name.
func (s *RuneService) GetTrees(ctx context.Context) ([]RuneTreeView, error) {
	runes, err := s.runeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byTree := map[int]*RuneTreeView{}
	for _, r := range runes {
		tree, ok := byTree[r.TreeID]
		if !ok {
			tree = &RuneTreeView{
				TreeID:      r.TreeID,
				TreeName:    r.TreeName,
				TreeIconURL: s.client.RuneTreeIconURL(r.TreeID, r.TreeName),
				Keystones:   []RuneView{},
				Slot1Runes:  []RuneView{},
				Slot2Runes:  []RuneView{},
				Slot3Runes:  []RuneView{},
			}
			byTree[r.TreeID] = tree
		}

		v := s.view(r)
		switch r.SlotIndex {
		case domain.KeystoneSlot:
			tree.Keystones = append(tree.Keystones, v)
		case 1:
			tree.Slot1Runes = append(tree.Slot1Runes, v)
		case 2:
			tree.Slot2Runes = append(tree.Slot2Runes, v)
		case 3:
			tree.Slot3Runes = append(tree.Slot3Runes, v)
		}
	}

	trees := make([]RuneTreeView, 0, len(byTree))
	for _, tree := range byTree {
		trees = append(trees, *tree)
	}
	sort.Slice(trees, func(i, j int) bool { return trees[i].TreeName < trees[j].TreeName })
	return trees, nil
}

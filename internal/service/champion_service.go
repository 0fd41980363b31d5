package service

import (
	"context"

	"github.com/dom/matchup-companion/internal/repository"
)

type ChampionService struct {
	championRepo repository.ChampionRepository
	roleRepo     repository.RoleRepository
}

func NewChampionService(championRepo repository.ChampionRepository, roleRepo repository.RoleRepository) *ChampionService {
	return &ChampionService{
		championRepo: championRepo,
		roleRepo:     roleRepo,
	}
}

func (s *ChampionService) GetAllChampions(ctx context.Context) ([]ChampionView, error) {
	champions, err := s.championRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return newChampionViews(champions), nil
}

func (s *ChampionService) GetChampion(ctx context.Context, id int) (*ChampionView, error) {
	champion, err := s.championRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newChampionView(champion)
	return &view, nil
}

// GetChampionsByRole lists champions whose primary lane is roleID. An
// unknown role yields domain.ErrRoleNotFound.
func (s *ChampionService) GetChampionsByRole(ctx context.Context, roleID int) ([]ChampionView, error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	champions, err := s.championRepo.GetByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return newChampionViews(champions), nil
}

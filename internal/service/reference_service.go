package service

import (
	"context"

	"github.com/dom/matchup-companion/internal/repository"
)

// ReferenceService serves the seeded lookup tables: lanes and summoner
// spells.
type ReferenceService struct {
	roleRepo  repository.RoleRepository
	spellRepo repository.SummonerSpellRepository
}

func NewReferenceService(roleRepo repository.RoleRepository, spellRepo repository.SummonerSpellRepository) *ReferenceService {
	return &ReferenceService{
		roleRepo:  roleRepo,
		spellRepo: spellRepo,
	}
}

func (s *ReferenceService) GetRoles(ctx context.Context) ([]RoleView, error) {
	roles, err := s.roleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RoleView, 0, len(roles))
	for _, r := range roles {
		views = append(views, newRoleView(r))
	}
	return views, nil
}

func (s *ReferenceService) GetRole(ctx context.Context, id int) (*RoleView, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := newRoleView(role)
	return &v, nil
}

func (s *ReferenceService) GetSummonerSpells(ctx context.Context) ([]SpellView, error) {
	spells, err := s.spellRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]SpellView, 0, len(spells))
	for _, sp := range spells {
		views = append(views, newSpellView(sp))
	}
	return views, nil
}

func (s *ReferenceService) GetSummonerSpell(ctx context.Context, id int) (*SpellView, error) {
	spell, err := s.spellRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := newSpellView(spell)
	return &v, nil
}

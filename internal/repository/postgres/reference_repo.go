package postgres

import (
	"context"
	"errors"

	"github.com/dom/matchup-companion/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *roleRepository {
	return &roleRepository{db: db}
}

// Seed inserts the given roles, keeping rows that already exist.
func (r *roleRepository) Seed(ctx context.Context, roles []*domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(roles).Error
}

func (r *roleRepository) GetAll(ctx context.Context) ([]*domain.Role, error) {
	var roles []*domain.Role
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) GetByID(ctx context.Context, id int) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Role{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

type summonerSpellRepository struct {
	db *gorm.DB
}

func NewSummonerSpellRepository(db *gorm.DB) *summonerSpellRepository {
	return &summonerSpellRepository{db: db}
}

func (r *summonerSpellRepository) Seed(ctx context.Context, spells []*domain.SummonerSpell) error {
	if len(spells) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "riot_spell_id"}},
		DoNothing: true,
	}).Create(spells).Error
}

func (r *summonerSpellRepository) GetAll(ctx context.Context) ([]*domain.SummonerSpell, error) {
	var spells []*domain.SummonerSpell
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&spells).Error; err != nil {
		return nil, err
	}
	return spells, nil
}

func (r *summonerSpellRepository) GetByID(ctx context.Context, id int) (*domain.SummonerSpell, error) {
	var spell domain.SummonerSpell
	err := r.db.WithContext(ctx).First(&spell, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSummonerSpellNotFound
		}
		return nil, err
	}
	return &spell, nil
}

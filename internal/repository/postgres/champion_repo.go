package postgres

import (
	"context"
	"errors"

	"github.com/dom/matchup-companion/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type championRepository struct {
	db *gorm.DB
}

func NewChampionRepository(db *gorm.DB) *championRepository {
	return &championRepository{db: db}
}

func (r *championRepository) Create(ctx context.Context, champion *domain.Champion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(champion).Error
}

// Update writes every column of the champion. The row is matched by
// primary key, so the riot id never changes here.
func (r *championRepository) Update(ctx context.Context, champion *domain.Champion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(champion).Error
}

// InsertMissing inserts champions whose riot id is not stored yet and
// leaves existing rows untouched.
func (r *championRepository) InsertMissing(ctx context.Context, champions []*domain.Champion) error {
	if len(champions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "riot_champion_id"}},
		DoNothing: true,
	}).Create(champions).Error
}

func (r *championRepository) GetAll(ctx context.Context) ([]*domain.Champion, error) {
	var champions []*domain.Champion
	err := r.db.WithContext(ctx).Preload("PrimaryRole").Order("name ASC").Find(&champions).Error
	if err != nil {
		return nil, err
	}
	return champions, nil
}

func (r *championRepository) GetByID(ctx context.Context, id int) (*domain.Champion, error) {
	var champion domain.Champion
	err := r.db.WithContext(ctx).Preload("PrimaryRole").First(&champion, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChampionNotFound
		}
		return nil, err
	}
	return &champion, nil
}

func (r *championRepository) GetByRiotID(ctx context.Context, riotID string) (*domain.Champion, error) {
	var champion domain.Champion
	err := r.db.WithContext(ctx).First(&champion, "riot_champion_id = ?", riotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChampionNotFound
		}
		return nil, err
	}
	return &champion, nil
}

func (r *championRepository) GetByRole(ctx context.Context, roleID int) ([]*domain.Champion, error) {
	var champions []*domain.Champion
	err := r.db.WithContext(ctx).
		Preload("PrimaryRole").
		Where("primary_role_id = ?", roleID).
		Order("name ASC").
		Find(&champions).Error
	if err != nil {
		return nil, err
	}
	return champions, nil
}

func (r *championRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Champion{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *championRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Champion{}).Count(&count).Error
	return count, err
}

package postgres

import (
	"context"
	"errors"

	"github.com/dom/matchup-companion/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type matchupRepository struct {
	db *gorm.DB
}

func NewMatchupRepository(db *gorm.DB) *matchupRepository {
	return &matchupRepository{db: db}
}

// withDetails preloads both champions with their lanes, the role, and tips
// ordered by priority then newest first.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PlayerChampion.PrimaryRole").
		Preload("EnemyChampion.PrimaryRole").
		Preload("Role").
		Preload("Tips", func(db *gorm.DB) *gorm.DB {
			return db.Order("priority ASC, created_at DESC, id DESC")
		})
}

func (r *matchupRepository) Create(ctx context.Context, matchup *domain.Matchup) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(matchup).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrMatchupExists
	}
	return err
}

func (r *matchupRepository) Update(ctx context.Context, matchup *domain.Matchup) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(matchup).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrMatchupExists
	}
	return err
}

func (r *matchupRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&domain.Matchup{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrMatchupNotFound
	}
	return nil
}

func (r *matchupRepository) GetAll(ctx context.Context) ([]*domain.Matchup, error) {
	var matchups []*domain.Matchup
	err := withDetails(r.db.WithContext(ctx)).Order("id ASC").Find(&matchups).Error
	if err != nil {
		return nil, err
	}
	return matchups, nil
}

func (r *matchupRepository) GetByID(ctx context.Context, id int) (*domain.Matchup, error) {
	var matchup domain.Matchup
	err := withDetails(r.db.WithContext(ctx)).First(&matchup, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMatchupNotFound
		}
		return nil, err
	}
	return &matchup, nil
}

func (r *matchupRepository) GetByTriple(ctx context.Context, playerChampionID, enemyChampionID, roleID int) (*domain.Matchup, error) {
	var matchup domain.Matchup
	err := withDetails(r.db.WithContext(ctx)).
		Where("player_champion_id = ? AND enemy_champion_id = ? AND role_id = ?", playerChampionID, enemyChampionID, roleID).
		First(&matchup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMatchupNotFound
		}
		return nil, err
	}
	return &matchup, nil
}

func (r *matchupRepository) GetByPlayerChampion(ctx context.Context, championID int) ([]*domain.Matchup, error) {
	var matchups []*domain.Matchup
	err := withDetails(r.db.WithContext(ctx)).
		Where("player_champion_id = ?", championID).
		Order("id ASC").
		Find(&matchups).Error
	if err != nil {
		return nil, err
	}
	return matchups, nil
}

func (r *matchupRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Matchup{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

type tipRepository struct {
	db *gorm.DB
}

func NewTipRepository(db *gorm.DB) *tipRepository {
	return &tipRepository{db: db}
}

func (r *tipRepository) Create(ctx context.Context, tip *domain.MatchupTip) error {
	return r.db.WithContext(ctx).Create(tip).Error
}

func (r *tipRepository) GetByMatchupID(ctx context.Context, matchupID int) ([]*domain.MatchupTip, error) {
	var tips []*domain.MatchupTip
	err := r.db.WithContext(ctx).
		Where("matchup_id = ?", matchupID).
		Order("priority ASC, created_at DESC, id DESC").
		Find(&tips).Error
	if err != nil {
		return nil, err
	}
	return tips, nil
}

package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/dom/matchup-companion/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type runeRepository struct {
	db *gorm.DB
}

func NewRuneRepository(db *gorm.DB) *runeRepository {
	return &runeRepository{db: db}
}

func (r *runeRepository) Upsert(ctx context.Context, perk *domain.Rune) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "riot_rune_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"key", "name", "icon_path", "short_description", "tree_id",
			"tree_name", "slot_index", "updated_at",
		}),
	}).Create(perk).Error
}

func (r *runeRepository) GetAll(ctx context.Context) ([]*domain.Rune, error) {
	var runes []*domain.Rune
	err := r.db.WithContext(ctx).Order("tree_id ASC, slot_index ASC, name ASC").Find(&runes).Error
	if err != nil {
		return nil, err
	}
	return runes, nil
}

func (r *runeRepository) GetByID(ctx context.Context, id int) (*domain.Rune, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *runeRepository) GetByRiotID(ctx context.Context, riotID int) (*domain.Rune, error) {
	return r.first(ctx, "riot_rune_id = ?", riotID)
}

func (r *runeRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Rune, error) {
	var perk domain.Rune
	err := r.db.WithContext(ctx).First(&perk, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRuneNotFound
		}
		return nil, err
	}
	return &perk, nil
}

func (r *runeRepository) GetByTree(ctx context.Context, treeID int) ([]*domain.Rune, error) {
	var runes []*domain.Rune
	err := r.db.WithContext(ctx).
		Where("tree_id = ?", treeID).
		Order("slot_index ASC, name ASC").
		Find(&runes).Error
	if err != nil {
		return nil, err
	}
	return runes, nil
}

func (r *runeRepository) GetByTreeAndSlot(ctx context.Context, treeID, slotIndex int) ([]*domain.Rune, error) {
	var runes []*domain.Rune
	err := r.db.WithContext(ctx).
		Where("tree_id = ? AND slot_index = ?", treeID, slotIndex).
		Order("name ASC").
		Find(&runes).Error
	if err != nil {
		return nil, err
	}
	return runes, nil
}

func (r *runeRepository) GetKeystones(ctx context.Context) ([]*domain.Rune, error) {
	var runes []*domain.Rune
	err := r.db.WithContext(ctx).
		Where("slot_index = ?", domain.KeystoneSlot).
		Order("tree_name ASC, name ASC").
		Find(&runes).Error
	if err != nil {
		return nil, err
	}
	return runes, nil
}

func (r *runeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Rune{}).Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

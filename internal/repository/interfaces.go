package repository

import (
	"context"

	"github.com/dom/matchup-companion/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	AddRole(ctx context.Context, userID uuid.UUID, roleName string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type ChampionRepository interface {
	Create(ctx context.Context, champion *domain.Champion) error
	Update(ctx context.Context, champion *domain.Champion) error
	InsertMissing(ctx context.Context, champions []*domain.Champion) error
	GetAll(ctx context.Context) ([]*domain.Champion, error)
	GetByID(ctx context.Context, id int) (*domain.Champion, error)
	GetByRiotID(ctx context.Context, riotID string) (*domain.Champion, error)
	GetByRole(ctx context.Context, roleID int) ([]*domain.Champion, error)
	Exists(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type RoleRepository interface {
	Seed(ctx context.Context, roles []*domain.Role) error
	GetAll(ctx context.Context) ([]*domain.Role, error)
	GetByID(ctx context.Context, id int) (*domain.Role, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type ItemRepository interface {
	Upsert(ctx context.Context, item *domain.Item) error
	GetPurchasable(ctx context.Context) ([]*domain.Item, error)
	GetCompleted(ctx context.Context) ([]*domain.Item, error)
	GetByID(ctx context.Context, id int) (*domain.Item, error)
	GetByRiotID(ctx context.Context, riotID int) (*domain.Item, error)
	GetByRiotIDs(ctx context.Context, riotIDs []int) ([]*domain.Item, error)
	SearchByName(ctx context.Context, term string) ([]*domain.Item, error)
	Count(ctx context.Context) (int64, error)
}

type RuneRepository interface {
	Upsert(ctx context.Context, perk *domain.Rune) error
	GetAll(ctx context.Context) ([]*domain.Rune, error)
	GetByID(ctx context.Context, id int) (*domain.Rune, error)
	GetByRiotID(ctx context.Context, riotID int) (*domain.Rune, error)
	GetByTree(ctx context.Context, treeID int) ([]*domain.Rune, error)
	GetByTreeAndSlot(ctx context.Context, treeID, slotIndex int) ([]*domain.Rune, error)
	GetKeystones(ctx context.Context) ([]*domain.Rune, error)
	Count(ctx context.Context) (int64, error)
}

type SummonerSpellRepository interface {
	Seed(ctx context.Context, spells []*domain.SummonerSpell) error
	GetAll(ctx context.Context) ([]*domain.SummonerSpell, error)
	GetByID(ctx context.Context, id int) (*domain.SummonerSpell, error)
}

type MatchupRepository interface {
	Create(ctx context.Context, matchup *domain.Matchup) error
	Update(ctx context.Context, matchup *domain.Matchup) error
	Delete(ctx context.Context, id int) error
	GetAll(ctx context.Context) ([]*domain.Matchup, error)
	GetByID(ctx context.Context, id int) (*domain.Matchup, error)
	GetByTriple(ctx context.Context, playerChampionID, enemyChampionID, roleID int) (*domain.Matchup, error)
	GetByPlayerChampion(ctx context.Context, championID int) ([]*domain.Matchup, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type TipRepository interface {
	Create(ctx context.Context, tip *domain.MatchupTip) error
	GetByMatchupID(ctx context.Context, matchupID int) ([]*domain.MatchupTip, error)
}

type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	Champion      ChampionRepository
	Role          RoleRepository
	Item          ItemRepository
	Rune          RuneRepository
	SummonerSpell SummonerSpellRepository
	Matchup       MatchupRepository
	Tip           TipRepository
}

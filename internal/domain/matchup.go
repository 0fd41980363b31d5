package domain

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy    Difficulty = "Easy"
	DifficultyMedium  Difficulty = "Medium"
	DifficultyHard    Difficulty = "Hard"
	DifficultyExtreme Difficulty = "Extreme"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return true
	}
	return false
}

type TipCategory string

const (
	TipEarlyGame TipCategory = "EarlyGame"
	TipMidGame   TipCategory = "MidGame"
	TipLateGame  TipCategory = "LateGame"
	TipItems     TipCategory = "Items"
	TipRunes     TipCategory = "Runes"
	TipAbilities TipCategory = "Abilities"
	TipGeneral   TipCategory = "General"
)

func (c TipCategory) IsValid() bool {
	switch c {
	case TipEarlyGame, TipMidGame, TipLateGame, TipItems, TipRunes, TipAbilities, TipGeneral:
		return true
	}
	return false
}

const (
	MinTipPriority     = 1
	MaxTipPriority     = 10
	DefaultTipPriority = 5
)

// MatchupGuide holds the free-form advice and build of a matchup. Rune and
// summoner spell ids are riot ids and are not foreign keys. Item lists are
// comma-joined riot item ids.
type MatchupGuide struct {
	GeneralAdvice    *string `json:"generalAdvice" gorm:"size:1000"`
	PrimaryTreeID    *int    `json:"primaryTreeId"`
	KeystoneID       *int    `json:"keystoneId"`
	PrimaryRune1ID   *int    `json:"primaryRune1Id"`
	PrimaryRune2ID   *int    `json:"primaryRune2Id"`
	PrimaryRune3ID   *int    `json:"primaryRune3Id"`
	SecondaryTreeID  *int    `json:"secondaryTreeId"`
	SecondaryRune1ID *int    `json:"secondaryRune1Id"`
	SecondaryRune2ID *int    `json:"secondaryRune2Id"`
	StatShards       *string `json:"statShards" gorm:"size:100"`
	StartingItems    *string `json:"startingItems" gorm:"size:200"`
	CoreItems        *string `json:"coreItems" gorm:"size:200"`
	SituationalItems *string `json:"situationalItems" gorm:"size:200"`
	FullBuildItems   *string `json:"fullBuildItems" gorm:"size:200"`
	SummonerSpell1ID *int    `json:"summonerSpell1Id"`
	SummonerSpell2ID *int    `json:"summonerSpell2Id"`
	AbilityOrder     *string `json:"abilityOrder" gorm:"size:100"`
	Strategy         *string `json:"strategy" gorm:"type:text"`
}

// Matchup is unique per (player champion, enemy champion, role).
type Matchup struct {
	ID               int        `json:"id" gorm:"primaryKey"`
	PlayerChampionID int        `json:"playerChampionId" gorm:"not null;uniqueIndex:idx_matchup_triple,priority:1"`
	PlayerChampion   *Champion  `json:"playerChampion,omitempty" gorm:"foreignKey:PlayerChampionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	EnemyChampionID  int        `json:"enemyChampionId" gorm:"not null;uniqueIndex:idx_matchup_triple,priority:2"`
	EnemyChampion    *Champion  `json:"enemyChampion,omitempty" gorm:"foreignKey:EnemyChampionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	RoleID           int        `json:"roleId" gorm:"not null;uniqueIndex:idx_matchup_triple,priority:3"`
	Role             *Role      `json:"role,omitempty" gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Difficulty       Difficulty `json:"difficulty" gorm:"size:20;not null;default:Medium"`
	MatchupGuide
	CreatedByID *uuid.UUID   `json:"createdById" gorm:"type:uuid;index"`
	CreatedBy   *User        `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	Tips        []MatchupTip `json:"tips" gorm:"foreignKey:MatchupID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CanBeEditedBy reports whether the user may update or delete the matchup.
// Rows without a creator are editable by admins only.
func (m *Matchup) CanBeEditedBy(userID uuid.UUID, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return m.CreatedByID != nil && *m.CreatedByID == userID
}

type MatchupTip struct {
	ID         int         `json:"id" gorm:"primaryKey"`
	MatchupID  int         `json:"matchupId" gorm:"not null;index"`
	Category   TipCategory `json:"category" gorm:"size:30;not null"`
	Content    string      `json:"content" gorm:"size:2000;not null"`
	Priority   int         `json:"priority" gorm:"not null;default:5"`
	AuthorName *string     `json:"authorName" gorm:"size:100"`
	AuthorID   *uuid.UUID  `json:"authorId" gorm:"type:uuid;index"`
	CreatedAt  time.Time   `json:"createdAt"`
}

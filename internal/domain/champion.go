package domain

import "time"

// Ability is one of a champion's Q/W/E/R spells. Fields stay nil when the
// champion detail document could not be fetched.
type Ability struct {
	SpellID   *string `json:"spellId" gorm:"size:100"`
	SpellName *string `json:"spellName" gorm:"size:100"`
	SpellIcon *string `json:"spellIcon" gorm:"size:300"`
}

type Champion struct {
	ID             int       `json:"id" gorm:"primaryKey"`
	RiotChampionID string    `json:"riotChampionId" gorm:"size:50;not null;uniqueIndex"` // Data Dragon "key", e.g. "266"
	Name           string    `json:"name" gorm:"size:100;not null;index"`
	Title          string    `json:"title" gorm:"size:200"`
	ImageURL       string    `json:"imageUrl" gorm:"size:300"`
	Description    string    `json:"description" gorm:"type:text"`
	PrimaryRoleID  *int      `json:"primaryRoleId" gorm:"index"`
	PrimaryRole    *Role     `json:"primaryRole,omitempty" gorm:"foreignKey:PrimaryRoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Q              Ability   `json:"q" gorm:"embedded;embeddedPrefix:q_"`
	W              Ability   `json:"w" gorm:"embedded;embeddedPrefix:w_"`
	E              Ability   `json:"e" gorm:"embedded;embeddedPrefix:e_"`
	R              Ability   `json:"r" gorm:"embedded;embeddedPrefix:r_"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Abilities returns pointers to the four ability slots in Q, W, E, R order.
func (c *Champion) Abilities() []*Ability {
	return []*Ability{&c.Q, &c.W, &c.E, &c.R}
}

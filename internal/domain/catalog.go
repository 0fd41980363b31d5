package domain

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Item struct {
	ID            int            `json:"id" gorm:"primaryKey"`
	RiotItemID    int            `json:"riotItemId" gorm:"not null;uniqueIndex"`
	Name          string         `json:"name" gorm:"size:200;not null;index"`
	Description   string         `json:"description" gorm:"type:text"`
	IconPath      string         `json:"iconPath" gorm:"size:300"`
	TotalGold     int            `json:"totalGold"`
	IsPurchasable bool           `json:"isPurchasable" gorm:"index"`
	IsCompleted   bool           `json:"isCompleted"`
	Tags          datatypes.JSON `json:"tags" gorm:"type:jsonb"`
	BuildsFrom    string         `json:"buildsFrom" gorm:"size:500"` // comma-joined riot item ids
	BuildsInto    string         `json:"buildsInto" gorm:"size:500"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Rune is a single perk. SlotIndex is the row inside its tree, 0 being
// the keystone row.
type Rune struct {
	ID               int       `json:"id" gorm:"primaryKey"`
	RiotRuneID       int       `json:"riotRuneId" gorm:"not null;uniqueIndex"`
	Key              string    `json:"key" gorm:"size:100;not null"`
	Name             string    `json:"name" gorm:"size:100;not null"`
	IconPath         string    `json:"iconPath" gorm:"size:300"`
	ShortDescription string    `json:"shortDescription" gorm:"type:text"`
	TreeID           int       `json:"treeId" gorm:"not null;index:idx_rune_tree_slot"`
	TreeName         string    `json:"treeName" gorm:"size:50;not null"`
	SlotIndex        int       `json:"slotIndex" gorm:"not null;index:idx_rune_tree_slot"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

const KeystoneSlot = 0

type SummonerSpell struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	RiotSpellID int    `json:"riotSpellId" gorm:"not null;uniqueIndex"`
	Name        string `json:"name" gorm:"size:50;not null;index"`
	Description string `json:"description" gorm:"size:500"`
	ImageURL    string `json:"imageUrl" gorm:"size:200"`
	Cooldown    int    `json:"cooldown"`
}

// JoinIDs renders a list of ids as the comma-joined form stored in text
// columns.
func JoinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// ParseIDs is the inverse of JoinIDs. Blank and non-numeric entries are
// dropped.
func ParseIDs(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

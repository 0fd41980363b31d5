package domain

import "strings"

// Lane ids match the seeded roles table.
const (
	RoleTop     = 1
	RoleJungle  = 2
	RoleMid     = 3
	RoleADC     = 4
	RoleSupport = 5
)

// Role is a lane position a champion is played in.
type Role struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string `json:"description" gorm:"size:200"`
}

// RoleForTag maps a Data Dragon champion tag to the lane it is usually
// played in. Tags without a lane return nil.
func RoleForTag(tag string) *int {
	var id int
	switch strings.ToLower(tag) {
	case "fighter", "tank":
		id = RoleTop
	case "assassin", "mage":
		id = RoleMid
	case "marksman":
		id = RoleADC
	case "support":
		id = RoleSupport
	default:
		return nil
	}
	return &id
}

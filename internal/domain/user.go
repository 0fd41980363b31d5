package domain

import (
	"time"

	"github.com/google/uuid"
)

const AdminRole = "Admin"

type User struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email           string     `json:"email" gorm:"size:256;not null;uniqueIndex"`
	UserName        string     `json:"userName" gorm:"size:50;not null;uniqueIndex"`
	PasswordHash    string     `json:"-" gorm:"not null"`
	DisplayName     *string    `json:"displayName" gorm:"size:100"`
	PreferredRoleID *int       `json:"preferredRoleId"`
	PreferredRole   *Role      `json:"preferredRole,omitempty" gorm:"foreignKey:PreferredRoleID;constraint:OnDelete:SET NULL"`
	IsGuest         bool       `json:"isGuest" gorm:"not null;default:false"`
	GuestExpiresAt  *time.Time `json:"guestExpiresAt"`
	EmailConfirmed  bool       `json:"emailConfirmed" gorm:"not null;default:false"`
	Roles           []AppRole  `json:"-" gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`
}

// AppRole is an authorization role such as Admin, not a lane.
type AppRole struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;not null;uniqueIndex"`
}

func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// GuestExpired reports whether a guest account has outlived its session.
// Registered users never expire.
func (u *User) GuestExpired(now time.Time) bool {
	return u.IsGuest && u.GuestExpiresAt != nil && now.After(*u.GuestExpiresAt)
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

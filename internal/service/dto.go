package service

import (
	"encoding/json"
	"time"

	"github.com/dom/matchup-companion/internal/domain"
	"github.com/google/uuid"
)

type RoleView struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newRoleView(r *domain.Role) RoleView {
	if r == nil {
		return RoleView{}
	}
	return RoleView{ID: r.ID, Name: r.Name, Description: r.Description}
}

type ChampionView struct {
	ID              int     `json:"id"`
	RiotChampionID  string  `json:"riotChampionId"`
	Name            string  `json:"name"`
	Title           string  `json:"title"`
	ImageURL        string  `json:"imageUrl"`
	Description     string  `json:"description"`
	PrimaryRoleID   *int    `json:"primaryRoleId"`
	PrimaryRoleName *string `json:"primaryRoleName"`

	QSpellID   *string `json:"qSpellId"`
	QSpellName *string `json:"qSpellName"`
	QSpellIcon *string `json:"qSpellIcon"`
	WSpellID   *string `json:"wSpellId"`
	WSpellName *string `json:"wSpellName"`
	WSpellIcon *string `json:"wSpellIcon"`
	ESpellID   *string `json:"eSpellId"`
	ESpellName *string `json:"eSpellName"`
	ESpellIcon *string `json:"eSpellIcon"`
	RSpellID   *string `json:"rSpellId"`
	RSpellName *string `json:"rSpellName"`
	RSpellIcon *string `json:"rSpellIcon"`
}

func newChampionView(c *domain.Champion) ChampionView {
	if c == nil {
		return ChampionView{}
	}
	v := ChampionView{
		ID:             c.ID,
		RiotChampionID: c.RiotChampionID,
		Name:           c.Name,
		Title:          c.Title,
		ImageURL:       c.ImageURL,
		Description:    c.Description,
		PrimaryRoleID:  c.PrimaryRoleID,
		QSpellID:       c.Q.SpellID,
		QSpellName:     c.Q.SpellName,
		QSpellIcon:     c.Q.SpellIcon,
		WSpellID:       c.W.SpellID,
		WSpellName:     c.W.SpellName,
		WSpellIcon:     c.W.SpellIcon,
		ESpellID:       c.E.SpellID,
		ESpellName:     c.E.SpellName,
		ESpellIcon:     c.E.SpellIcon,
		RSpellID:       c.R.SpellID,
		RSpellName:     c.R.SpellName,
		RSpellIcon:     c.R.SpellIcon,
	}
	if c.PrimaryRole != nil {
		name := c.PrimaryRole.Name
		v.PrimaryRoleName = &name
	}
	return v
}

func newChampionViews(champions []*domain.Champion) []ChampionView {
	views := make([]ChampionView, 0, len(champions))
	for _, c := range champions {
		views = append(views, newChampionView(c))
	}
	return views
}

type TipView struct {
	ID         int                `json:"id"`
	MatchupID  int                `json:"matchupId"`
	Category   domain.TipCategory `json:"category"`
	Content    string             `json:"content"`
	Priority   int                `json:"priority"`
	AuthorName *string            `json:"authorName"`
	CreatedAt  time.Time          `json:"createdAt"`
}

func newTipView(t *domain.MatchupTip) TipView {
	return TipView{
		ID:         t.ID,
		MatchupID:  t.MatchupID,
		Category:   t.Category,
		Content:    t.Content,
		Priority:   t.Priority,
		AuthorName: t.AuthorName,
		CreatedAt:  t.CreatedAt,
	}
}

// MatchupView is a matchup with both champions, the role and its tips.
// The guide fields are flattened into the object.
type MatchupView struct {
	ID             int               `json:"id"`
	PlayerChampion ChampionView      `json:"playerChampion"`
	EnemyChampion  ChampionView      `json:"enemyChampion"`
	Role           RoleView          `json:"role"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	domain.MatchupGuide
	CreatedByID *uuid.UUID `json:"createdById"`
	Tips        []TipView  `json:"tips"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newMatchupView(m *domain.Matchup) *MatchupView {
	v := &MatchupView{
		ID:             m.ID,
		PlayerChampion: newChampionView(m.PlayerChampion),
		EnemyChampion:  newChampionView(m.EnemyChampion),
		Role:           newRoleView(m.Role),
		Difficulty:     m.Difficulty,
		MatchupGuide:   m.MatchupGuide,
		CreatedByID:    m.CreatedByID,
		Tips:           make([]TipView, 0, len(m.Tips)),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for i := range m.Tips {
		v.Tips = append(v.Tips, newTipView(&m.Tips[i]))
	}
	return v
}

func newMatchupViews(matchups []*domain.Matchup) []*MatchupView {
	views := make([]*MatchupView, 0, len(matchups))
	for _, m := range matchups {
		views = append(views, newMatchupView(m))
	}
	return views
}

type RuneView struct {
	ID               int     `json:"id"`
	RiotRuneID       int     `json:"riotRuneId"`
	Key              string  `json:"key"`
	Name             string  `json:"name"`
	IconPath         string  `json:"iconPath"`
	IconURL          *string `json:"iconUrl"`
	TreeName         string  `json:"treeName"`
	TreeID           int     `json:"treeId"`
	SlotIndex        int     `json:"slotIndex"`
	ShortDescription string  `json:"shortDescription"`
}

type RuneTreeView struct {
	TreeID      int        `json:"treeId"`
	TreeName    string     `json:"treeName"`
	TreeIconURL string     `json:"treeIconUrl"`
	Keystones   []RuneView `json:"keystones"`
	Slot1Runes  []RuneView `json:"slot1Runes"`
	Slot2Runes  []RuneView `json:"slot2Runes"`
	Slot3Runes  []RuneView `json:"slot3Runes"`
}

type ItemView struct {
	ID            int      `json:"id"`
	RiotItemID    int      `json:"riotItemId"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	IconPath      string   `json:"iconPath"`
	IconURL       *string  `json:"iconUrl"`
	TotalGold     int      `json:"totalGold"`
	Tags          []string `json:"tags"`
	IsPurchasable bool     `json:"isPurchasable"`
	IsCompleted   bool     `json:"isCompleted"`
}

// itemTags decodes the stored tag list. A malformed column yields nil.
func itemTags(item *domain.Item) []string {
	if len(item.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(item.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

type SpellView struct {
	ID          int    `json:"id"`
	RiotSpellID int    `json:"riotSpellId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Cooldown    int    `json:"cooldown"`
}

func newSpellView(s *domain.SummonerSpell) SpellView {
	return SpellView{
		ID:          s.ID,
		RiotSpellID: s.RiotSpellID,
		Name:        s.Name,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Cooldown:    s.Cooldown,
	}
}

type UserView struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	UserName          string    `json:"userName"`
	DisplayName       *string   `json:"displayName"`
	PreferredRoleID   *int      `json:"preferredRoleId"`
	PreferredRoleName *string   `json:"preferredRoleName"`
	IsGuest           bool      `json:"isGuest"`
	CreatedAt         time.Time `json:"createdAt"`
	Roles             []string  `json:"roles"`
}

func newUserView(u *domain.User) *UserView {
	v := &UserView{
		ID:              u.ID,
		Email:           u.Email,
		UserName:        u.UserName,
		DisplayName:     u.DisplayName,
		PreferredRoleID: u.PreferredRoleID,
		IsGuest:         u.IsGuest,
		CreatedAt:       u.CreatedAt,
		Roles:           u.RoleNames(),
	}
	if u.PreferredRole != nil {
		name := u.PreferredRole.Name
		v.PreferredRoleName = &name
	}
	return v
}

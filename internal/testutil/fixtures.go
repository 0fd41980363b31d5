package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var riotIDSeq atomic.Int64

func init() {
	riotIDSeq.Store(10000)
}

// DataGenerator produces randomized test data from a seedable faker.
type DataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewDataGenerator uses seed when given and the clock otherwise.
func NewDataGenerator(seed ...int64) *DataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &DataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

func (g *DataGenerator) Seed() int64 {
	return g.seed
}

// RegisterBody returns a valid registration payload with unique names.
func (g *DataGenerator) RegisterBody() map[string]interface{} {
	suffix := g.faker.LetterN(6)
	return map[string]interface{}{
		"email":       fmt.Sprintf("%s.%s@example.com", g.faker.FirstName(), suffix),
		"userName":    "user_" + suffix,
		"password":    g.faker.Password(true, true, true, false, false, 12),
		"displayName": g.faker.Name(),
	}
}

// TipContent returns text that passes the tip length rules.
func (g *DataGenerator) TipContent() string {
	return g.faker.Sentence(g.faker.Number(6, 14))
}

func (g *DataGenerator) TipCategory() domain.TipCategory {
	categories := []string{"EarlyGame", "MidGame", "LateGame", "Items", "Runes", "Abilities", "General"}
	return domain.TipCategory(g.faker.RandomString(categories))
}

func (g *DataGenerator) Difficulty() domain.Difficulty {
	return domain.Difficulty(g.faker.RandomString([]string{"Easy", "Medium", "Hard", "Extreme"}))
}

// ChampionBuilder builds champion rows
type ChampionBuilder struct {
	riotID string
	name   string
	title  string
	roleID *int
}

func NewChampionBuilder() *ChampionBuilder {
	id := riotIDSeq.Add(1)
	return &ChampionBuilder{
		riotID: strconv.FormatInt(id, 10),
		name:   fmt.Sprintf("Champion%d", id),
		title:  gofakeit.JobTitle(),
	}
}

func (b *ChampionBuilder) WithRiotID(id string) *ChampionBuilder {
	b.riotID = id
	return b
}

func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.name = name
	return b
}

func (b *ChampionBuilder) WithRole(roleID int) *ChampionBuilder {
	b.roleID = &roleID
	return b
}

func (b *ChampionBuilder) Build(t *testing.T, db *gorm.DB) *domain.Champion {
	t.Helper()

	champion := &domain.Champion{
		RiotChampionID: b.riotID,
		Name:           b.name,
		Title:          b.title,
		ImageURL:       "https://ddragon.leagueoflegends.com/cdn/14.1.1/img/champion/" + b.name + ".png",
		PrimaryRoleID:  b.roleID,
	}
	if err := db.Create(champion).Error; err != nil {
		t.Fatalf("failed to create champion: %v", err)
	}
	return champion
}

// SeedChampions inserts count champions with generated names.
func SeedChampions(t *testing.T, db *gorm.DB, count int) []*domain.Champion {
	t.Helper()

	champions := make([]*domain.Champion, 0, count)
	for i := 0; i < count; i++ {
		champions = append(champions, NewChampionBuilder().Build(t, db))
	}
	return champions
}

// CreateUser inserts a registered user with generated names.
func CreateUser(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	suffix := gofakeit.LetterN(8)
	user := &domain.User{
		Email:        "user." + suffix + "@example.com",
		UserName:     "user_" + suffix,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// MatchupBuilder builds matchup rows, creating champions when none are set.
type MatchupBuilder struct {
	playerID   int
	enemyID    int
	roleID     int
	difficulty domain.Difficulty
	creatorID  *uuid.UUID
	tips       []domain.MatchupTip
}

func NewMatchupBuilder() *MatchupBuilder {
	return &MatchupBuilder{roleID: domain.RoleMid, difficulty: domain.DifficultyMedium}
}

func (b *MatchupBuilder) WithChampions(playerID, enemyID int) *MatchupBuilder {
	b.playerID = playerID
	b.enemyID = enemyID
	return b
}

func (b *MatchupBuilder) WithRole(roleID int) *MatchupBuilder {
	b.roleID = roleID
	return b
}

func (b *MatchupBuilder) WithDifficulty(d domain.Difficulty) *MatchupBuilder {
	b.difficulty = d
	return b
}

func (b *MatchupBuilder) WithCreator(userID uuid.UUID) *MatchupBuilder {
	b.creatorID = &userID
	return b
}

func (b *MatchupBuilder) WithTip(category domain.TipCategory, content string, priority int) *MatchupBuilder {
	b.tips = append(b.tips, domain.MatchupTip{Category: category, Content: content, Priority: priority})
	return b
}

func (b *MatchupBuilder) Build(t *testing.T, db *gorm.DB) *domain.Matchup {
	t.Helper()

	if b.playerID == 0 {
		b.playerID = NewChampionBuilder().Build(t, db).ID
	}
	if b.enemyID == 0 {
		b.enemyID = NewChampionBuilder().Build(t, db).ID
	}

	matchup := &domain.Matchup{
		PlayerChampionID: b.playerID,
		EnemyChampionID:  b.enemyID,
		RoleID:           b.roleID,
		Difficulty:       b.difficulty,
		CreatedByID:      b.creatorID,
		Tips:             b.tips,
	}
	if err := db.Create(matchup).Error; err != nil {
		t.Fatalf("failed to create matchup: %v", err)
	}
	return matchup
}

// Register signs up a fresh account through the API.
func (ts *TestServer) Register(t *testing.T) *service.AuthResult {
	t.Helper()

	resp := DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), NewDataGenerator().RegisterBody(), "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: unexpected status %d", resp.StatusCode)
	}

	var result service.AuthResult
	AssertJSONResponse(t, resp, &result)
	return &result
}

// Guest opens a guest session through the API.
func (ts *TestServer) Guest(t *testing.T) *service.AuthResult {
	t.Helper()

	resp := DoJSON(t, http.MethodPost, ts.APIURL("/auth/guest"), nil, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("guest: unexpected status %d", resp.StatusCode)
	}

	var result service.AuthResult
	AssertJSONResponse(t, resp, &result)
	return &result
}

// Admin registers an account, grants it the Admin role and logs in again
// so the token carries the role.
func (ts *TestServer) Admin(t *testing.T) *service.AuthResult {
	t.Helper()

	body := NewDataGenerator().RegisterBody()
	resp := DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), body, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register admin: unexpected status %d", resp.StatusCode)
	}

	email := body["email"].(string)
	if err := ts.Services.Auth.GrantRole(t.Context(), email, domain.AdminRole); err != nil {
		t.Fatalf("grant admin: %v", err)
	}

	resp = DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), map[string]interface{}{
		"email":    email,
		"password": body["password"],
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login admin: unexpected status %d", resp.StatusCode)
	}

	var result service.AuthResult
	AssertJSONResponse(t, resp, &result)
	return &result
}

// DoJSON sends body as JSON with an optional bearer token.
func DoJSON(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	return resp
}

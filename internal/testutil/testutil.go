package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/matchup-companion/internal/api"
	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/repository"
	repoPostgres "github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/seed"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts PostgreSQL, migrates every model and seeds the
// reference tables.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_matchup_companion"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(testDB.Cleanup)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	testDB.DSN = dsn

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	testDB.DB = db

	testDB.Seed(t)
	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Seed writes the embedded roles and summoner spells.
func (tdb *TestDB) Seed(t *testing.T) {
	t.Helper()

	data, err := seed.Load()
	if err != nil {
		t.Fatalf("failed to load seed data: %v", err)
	}
	if err := seed.Apply(context.Background(), repoPostgres.NewRepositories(tdb.DB), data); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
}

// Truncate clears every table and reseeds reference data.
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"matchup_tips",
		"matchups",
		"user_sessions",
		"user_roles",
		"users",
		"app_roles",
		"champions",
		"items",
		"runes",
		"summoner_spells",
		"roles",
	}

	stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if err := tdb.DB.Exec(stmt).Error; err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	tdb.Seed(t)
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                      "0",
		Environment:               "test",
		CORSAllowedOrigins:        []string{"*"},
		JWTSecret:                 "test-jwt-secret-key-for-testing-only-0123456789",
		JWTIssuer:                 "MatchupCompanion",
		JWTAudience:               "MatchupCompanionClient",
		JWTExpirationHours:        1,
		RefreshTokenDays:          7,
		GuestSessionHours:         24,
		AuthRateLimitPerMinute:    1000,
		DataDragonFallbackVersion: "14.1.1",
		DataDragonTimeout:         5 * time.Second,
		SyncLanguage:              "en_US",
		LogLevel:                  "error",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Feed     *FakeDataDragon
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Config   *config.Config
}

// NewTestServer wires the full HTTP stack against a fresh database and a
// fake Data Dragon feed. opts adjust the config before the router is built.
func NewTestServer(t *testing.T, opts ...func(*config.Config)) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	feed := NewFakeDataDragon(t)
	cfg := TestConfig()
	cfg.DataDragonBaseURL = feed.URL()
	for _, opt := range opts {
		opt(cfg)
	}

	repos := repoPostgres.NewRepositories(testDB.DB)
	hub := websocket.NewHub()
	go hub.Run()

	services := service.NewServices(repos, cfg)
	services.Matchup.SetNotifier(hub)
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Feed:     feed,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// WebSocketURL returns the feed URL, optionally subscribed to a matchup.
func (ts *TestServer) WebSocketURL(token string, matchupID int) string {
	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http")
	url := wsURL + "/api/ws"
	sep := "?"
	if token != "" {
		url += sep + "token=" + token
		sep = "&"
	}
	if matchupID > 0 {
		url += fmt.Sprintf("%smatchupId=%d", sep, matchupID)
	}
	return url
}

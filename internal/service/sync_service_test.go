package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository"
	"github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	db      *testutil.TestDB
	feed    *testutil.FakeDataDragon
	repos   *repository.Repositories
	service *service.SyncService
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	feed := testutil.NewFakeDataDragon(t)
	feed.Stock()

	repos := postgres.NewRepositories(testDB.DB)
	client := ddragon.NewClient(feed.URL(), 5*time.Second)
	svc := service.NewSyncService(client, ddragon.NewVersionCache(client), repos.Champion, repos.Rune, repos.Item)

	return &syncFixture{db: testDB, feed: feed, repos: repos, service: svc}
}

func TestSyncService_SyncAll(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	result, err := f.service.SyncAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "14.2.1", result.Version)
	assert.Equal(t, service.DefaultSyncLanguage, result.Language)
	assert.Equal(t, 2, result.Champions)
	assert.Equal(t, 7, result.Runes)
	assert.Equal(t, 2, result.Items)

	aatrox, err := f.repos.Champion.GetByRiotID(ctx, "266")
	require.NoError(t, err)
	require.NotNil(t, aatrox.PrimaryRoleID)
	assert.Equal(t, domain.RoleTop, *aatrox.PrimaryRoleID)
	assert.Equal(t, f.feed.URL()+"/cdn/14.2.1/img/champion/Aatrox.png", aatrox.ImageURL)
	require.NotNil(t, aatrox.R.SpellName)
	assert.Equal(t, "World Ender", *aatrox.R.SpellName)
	require.NotNil(t, aatrox.Q.SpellIcon)
	assert.Equal(t, f.feed.URL()+"/cdn/14.2.1/img/spell/AatroxQ.png", *aatrox.Q.SpellIcon)

	ahri, err := f.repos.Champion.GetByRiotID(ctx, "103")
	require.NoError(t, err)
	require.NotNil(t, ahri.PrimaryRoleID)
	assert.Equal(t, domain.RoleMid, *ahri.PrimaryRoleID)
	assert.Nil(t, ahri.Q.SpellID)

	edge, err := f.repos.Item.GetByRiotID(ctx, 3031)
	require.NoError(t, err)
	assert.Equal(t, "Infinity Edge", edge.Name)
	assert.True(t, edge.IsCompleted)
	assert.Equal(t, "1038,1018", edge.BuildsFrom)

	_, err = f.repos.Item.GetByRiotID(ctx, 3006)
	assert.ErrorIs(t, err, domain.ErrItemNotFound, "items unavailable on Summoner's Rift are skipped")

	keystones, err := f.repos.Rune.GetKeystones(ctx)
	require.NoError(t, err)
	assert.Len(t, keystones, 3)
}

func TestSyncService_IsIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	_, err := f.service.SyncAll(ctx, "en_US")
	require.NoError(t, err)
	before, err := f.repos.Champion.GetByRiotID(ctx, "266")
	require.NoError(t, err)

	result, err := f.service.SyncAll(ctx, "en_US")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Champions, "updates count as synced")

	after, err := f.repos.Champion.GetByRiotID(ctx, "266")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)

	for name, count := range map[string]func(context.Context) (int64, error){
		"champions": f.repos.Champion.Count,
		"runes":     f.repos.Rune.Count,
		"items":     f.repos.Item.Count,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		want := map[string]int64{"champions": 2, "runes": 7, "items": 2}[name]
		assert.Equal(t, want, n, name)
	}
}

func TestSyncService_UpdateKeepsCuratedData(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	_, err := f.service.SyncChampions(ctx, "en_US")
	require.NoError(t, err)

	aatrox, err := f.repos.Champion.GetByRiotID(ctx, "266")
	require.NoError(t, err)
	jungle := domain.RoleJungle
	aatrox.PrimaryRoleID = &jungle
	require.NoError(t, f.repos.Champion.Update(ctx, aatrox))

	f.feed.Fail("champion/Aatrox.json", http.StatusInternalServerError)
	_, err = f.service.SyncChampions(ctx, "en_US")
	require.NoError(t, err, "a missing detail document does not fail the sync")

	got, err := f.repos.Champion.GetByRiotID(ctx, "266")
	require.NoError(t, err)
	require.NotNil(t, got.PrimaryRoleID)
	assert.Equal(t, domain.RoleJungle, *got.PrimaryRoleID, "lane is only inferred on create")
	require.NotNil(t, got.Q.SpellName)
	assert.Equal(t, "The Darkin Blade", *got.Q.SpellName, "abilities survive a failed detail fetch")
}

func TestSyncService_SyncAllStopsAtFirstFailure(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.feed.Fail("runesReforged.json", http.StatusServiceUnavailable)

	result, err := f.service.SyncAll(ctx, "en_US")
	require.Error(t, err)
	assert.Equal(t, 2, result.Champions)
	assert.Zero(t, result.Items)

	champions, err := f.repos.Champion.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, champions, "completed stages stay committed")

	items, err := f.repos.Item.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, items)
}

func TestSyncService_SyncEmpty(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	f.feed.Fail("item.json", http.StatusBadGateway)
	first := f.service.SyncEmpty(ctx, "en_US")
	assert.Equal(t, 2, first.Champions)
	assert.Equal(t, 7, first.Runes)
	assert.Zero(t, first.Items, "failures are logged, not returned")

	f.feed.Fail("item.json", 0)
	f.feed.AddChampion(ddragon.ChampionSummary{ID: "Zed", Key: "238", Name: "Zed", Tags: []string{"Assassin"}})

	second := f.service.SyncEmpty(ctx, "en_US")
	assert.Zero(t, second.Champions, "populated tables are skipped")
	assert.Zero(t, second.Runes)
	assert.Equal(t, 2, second.Items)

	_, err := f.repos.Champion.GetByRiotID(ctx, "238")
	assert.ErrorIs(t, err, domain.ErrChampionNotFound)
}

func TestSyncService_Language(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.service.SyncRunes(context.Background(), "ko_KR")
	require.NoError(t, err)
	assert.Equal(t, []string{"ko_KR"}, f.feed.Languages())
}

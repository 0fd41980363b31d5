package ddragon_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCache_Current(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *testutil.FakeDataDragon)
		opts      []ddragon.VersionCacheOption
		want      string
		wantFetch int
	}{
		{
			name:      "latest version is the first entry",
			want:      "14.2.1",
			wantFetch: 1,
		},
		{
			name:      "pinned version skips the feed",
			opts:      []ddragon.VersionCacheOption{ddragon.WithPinnedVersion("13.24.1")},
			want:      "13.24.1",
			wantFetch: 0,
		},
		{
			name:      "server error falls back",
			setup:     func(f *testutil.FakeDataDragon) { f.Fail("versions.json", http.StatusInternalServerError) },
			want:      ddragon.DefaultFallbackVersion,
			wantFetch: 1,
		},
		{
			name:      "empty index falls back to configured version",
			setup:     func(f *testutil.FakeDataDragon) { f.SetVersions() },
			opts:      []ddragon.VersionCacheOption{ddragon.WithFallbackVersion("13.1.1")},
			want:      "13.1.1",
			wantFetch: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := testutil.NewFakeDataDragon(t)
			if tt.setup != nil {
				tt.setup(feed)
			}
			cache := ddragon.NewVersionCache(ddragon.NewClient(feed.URL(), 5*time.Second), tt.opts...)

			assert.Equal(t, tt.want, cache.Current(context.Background()))
			assert.Equal(t, tt.wantFetch, feed.VersionHits())
		})
	}
}

func TestVersionCache_RefreshesAfterTTL(t *testing.T) {
	feed := testutil.NewFakeDataDragon(t)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	cache := ddragon.NewVersionCache(
		ddragon.NewClient(feed.URL(), 5*time.Second),
		ddragon.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	assert.Equal(t, "14.2.1", cache.Current(ctx))
	assert.Equal(t, "14.2.1", cache.Current(ctx))
	assert.Equal(t, 1, feed.VersionHits())

	feed.SetVersions("14.3.1", "14.2.1")
	now = now.Add(ddragon.DefaultVersionTTL - time.Minute)
	assert.Equal(t, "14.2.1", cache.Current(ctx), "still inside the TTL")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, "14.3.1", cache.Current(ctx))
	assert.Equal(t, 2, feed.VersionHits())
}

func TestVersionCache_FailureIsRememberedBriefly(t *testing.T) {
	feed := testutil.NewFakeDataDragon(t)
	feed.Fail("versions.json", http.StatusBadGateway)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	cache := ddragon.NewVersionCache(
		ddragon.NewClient(feed.URL(), 5*time.Second),
		ddragon.WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.Equal(t, ddragon.DefaultFallbackVersion, cache.Current(ctx))
	}
	assert.Equal(t, 1, feed.VersionHits(), "an unreachable feed is asked once per retry window")

	feed.Fail("versions.json", 0)
	now = now.Add(ddragon.DefaultRetryAfter - time.Second)
	assert.Equal(t, ddragon.DefaultFallbackVersion, cache.Current(ctx))
	assert.Equal(t, 1, feed.VersionHits())

	now = now.Add(2 * time.Second)
	assert.Equal(t, "14.2.1", cache.Current(ctx))
	assert.Equal(t, 2, feed.VersionHits())
}

func TestVersionCache_KeepsLastGoodVersionWhenFeedFails(t *testing.T) {
	feed := testutil.NewFakeDataDragon(t)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	cache := ddragon.NewVersionCache(
		ddragon.NewClient(feed.URL(), 5*time.Second),
		ddragon.WithClock(func() time.Time { return now }),
		ddragon.WithRetryAfter(30*time.Second),
	)
	ctx := context.Background()

	assert.Equal(t, "14.2.1", cache.Current(ctx))

	feed.Fail("versions.json", http.StatusServiceUnavailable)
	now = now.Add(ddragon.DefaultVersionTTL + time.Minute)
	assert.Equal(t, "14.2.1", cache.Current(ctx))
	assert.Equal(t, "14.2.1", cache.Current(ctx))
	assert.Equal(t, 2, feed.VersionHits())

	// Still failing after the retry window: the last good version survives.
	now = now.Add(time.Minute)
	assert.Equal(t, "14.2.1", cache.Current(ctx))
	assert.Equal(t, 3, feed.VersionHits())
}

// Cold concurrent callers may each fetch. Every caller still gets a real
// version and the cache ends up warm.
func TestVersionCache_ConcurrentColdMisses(t *testing.T) {
	feed := testutil.NewFakeDataDragon(t)
	cache := ddragon.NewVersionCache(ddragon.NewClient(feed.URL(), 5*time.Second))
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Current(ctx)
		}(i)
	}
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, "14.2.1", v)
	}
	hits := feed.VersionHits()
	assert.GreaterOrEqual(t, hits, 1)
	assert.LessOrEqual(t, hits, callers)

	cache.Current(ctx)
	assert.Equal(t, hits, feed.VersionHits(), "warm cache must not fetch")
}

func TestClient_ChampionsAndDetail(t *testing.T) {
	feed := testutil.NewFakeDataDragon(t)
	feed.AddChampion(ddragon.ChampionSummary{ID: "Zed", Key: "238", Name: "Zed", Tags: []string{"Assassin"}})
	feed.AddChampion(
		ddragon.ChampionSummary{ID: "Ahri", Key: "103", Name: "Ahri", Tags: []string{"Mage", "Assassin"}},
		ddragon.Spell{ID: "AhriQ", Name: "Orb of Deception", Image: ddragon.Image{Full: "AhriQ.png"}},
	)
	client := ddragon.NewClient(feed.URL(), 5*time.Second)
	ctx := context.Background()

	champions, err := client.Champions(ctx, "14.2.1", "en_US")
	require.NoError(t, err)
	require.Len(t, champions, 2)
	assert.Equal(t, "Ahri", champions[0].ID)
	assert.Equal(t, "Zed", champions[1].ID)

	detail, err := client.ChampionDetail(ctx, "14.2.1", "en_US", "Ahri")
	require.NoError(t, err)
	require.Len(t, detail.Spells, 1)
	assert.Equal(t, "Orb of Deception", detail.Spells[0].Name)

	_, err = client.ChampionDetail(ctx, "14.2.1", "en_US", "Zed")
	assert.Error(t, err)

	assert.Equal(t, feed.URL()+"/cdn/14.2.1/img/champion/Ahri.png", client.ChampionImageURL("14.2.1", "Ahri.png"))
	assert.Equal(t, feed.URL()+"/cdn/img/perk-images/Styles/8100_Domination.png", client.RuneTreeIconURL(8100, "Domination"))
}

func TestFlattenRunes(t *testing.T) {
	trees := testutil.SampleRuneTrees()[1:]

	got := ddragon.FlattenRunes(trees)

	want := []ddragon.FlatRune{
		{RuneData: trees[0].Slots[0].Runes[0], TreeID: 8100, TreeName: "Domination", SlotIndex: 0},
		{RuneData: trees[0].Slots[1].Runes[0], TreeID: 8100, TreeName: "Domination", SlotIndex: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FlattenRunes mismatch (-want +got):\n%s", diff)
	}
}

func TestItemData_AvailableOnSummonersRift(t *testing.T) {
	tests := []struct {
		name string
		maps map[string]bool
		want bool
	}{
		{name: "no map data", maps: nil, want: true},
		{name: "available", maps: map[string]bool{"11": true, "12": false}, want: true},
		{name: "explicitly unavailable", maps: map[string]bool{"11": false}, want: false},
		{name: "other maps only", maps: map[string]bool{"12": true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ddragon.ItemData{Maps: tt.maps}.AvailableOnSummonersRift())
		})
	}
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Berserker's Greaves", ddragon.StripMarkup("<rarityGeneric>Berserker's Greaves</rarityGeneric>"))
	assert.Equal(t, "Doran's Blade", ddragon.StripMarkup("Doran&apos;s Blade"))
	assert.Equal(t, "Plain", ddragon.StripMarkup("  Plain "))
}

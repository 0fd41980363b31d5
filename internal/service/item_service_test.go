package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_ReadsWhileFeedIsDown(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repos.Item.Upsert(ctx, &domain.Item{
		RiotItemID:    1055,
		Name:          "Doran's Blade",
		IconPath:      "1055.png",
		TotalGold:     450,
		IsPurchasable: true,
	}))

	feed := testutil.NewFakeDataDragon(t)
	feed.Fail("versions.json", http.StatusServiceUnavailable)
	client := ddragon.NewClient(feed.URL(), 5*time.Second)
	items := service.NewItemService(repos.Item, client, ddragon.NewVersionCache(client))

	for i := 0; i < 5; i++ {
		views, err := items.GetPurchasable(ctx)
		require.NoError(t, err)
		require.Len(t, views, 1)
		require.NotNil(t, views[0].IconURL)
		assert.Contains(t, *views[0].IconURL, "/cdn/"+ddragon.DefaultFallbackVersion+"/img/item/1055.png")
	}

	view, err := items.GetByRiotID(ctx, 1055)
	require.NoError(t, err)
	assert.Equal(t, "Doran's Blade", view.Name)

	assert.Equal(t, 1, feed.VersionHits(), "local reads must not each call the feed")
}

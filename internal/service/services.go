package service

import (
	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Champion  *ChampionService
	Rune      *RuneService
	Item      *ItemService
	Reference *ReferenceService
	Matchup   *MatchupService
	Sync      *SyncService
}

// NewServices wires every service against repos. The Data Dragon client
// and version cache are shared by sync and the catalog views.
func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	client := ddragon.NewClient(cfg.DataDragonBaseURL, cfg.DataDragonTimeout)
	versions := ddragon.NewVersionCache(client,
		ddragon.WithPinnedVersion(cfg.DataDragonVersion),
		ddragon.WithFallbackVersion(cfg.DataDragonFallbackVersion),
	)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.Session, repos.Role, cfg),
		Champion:  NewChampionService(repos.Champion, repos.Role),
		Rune:      NewRuneService(repos.Rune, client),
		Item:      NewItemService(repos.Item, client, versions),
		Reference: NewReferenceService(repos.Role, repos.SummonerSpell),
		Matchup:   NewMatchupService(repos.Matchup, repos.Tip, repos.Champion, repos.Role),
		Sync:      NewSyncService(client, versions, repos.Champion, repos.Rune, repos.Item),
	}
}

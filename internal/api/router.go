package api

import (
	"net/http"

	"github.com/dom/matchup-companion/internal/api/handlers"
	"github.com/dom/matchup-companion/internal/api/middleware"
	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/domain"
	"github.com/dom/matchup-companion/internal/metrics"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.Authenticate(services.Auth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth)
	championHandler := handlers.NewChampionHandler(services.Champion)
	runeHandler := handlers.NewRuneHandler(services.Rune)
	itemHandler := handlers.NewItemHandler(services.Item)
	referenceHandler := handlers.NewReferenceHandler(services.Reference)
	matchupHandler := handlers.NewMatchupHandler(services.Matchup)
	syncHandler := handlers.NewSyncHandler(services.Sync)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, cfg.CORSAllowedOrigins)

	authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimitPerMinute)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(authLimiter))

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/guest", authHandler.Guest)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.Get("/validate", authHandler.Validate)
			})
		})

		r.Route("/champions", func(r chi.Router) {
			r.Get("/", championHandler.GetAll)
			r.Get("/{id}", championHandler.Get)
			r.Get("/role/{roleId}", championHandler.GetByRole)
		})

		r.Route("/runes", func(r chi.Router) {
			r.Get("/", runeHandler.GetAll)
			r.Get("/keystones", runeHandler.GetKeystones)
			r.Get("/trees", runeHandler.GetTrees)
			r.Get("/tree/{treeId}", runeHandler.GetByTree)
			r.Get("/tree/{treeId}/slot/{slot}", runeHandler.GetByTreeAndSlot)
			r.Get("/{id}", runeHandler.Get)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.GetAll)
			r.Get("/completed", itemHandler.GetCompleted)
			r.Get("/search", itemHandler.Search)
			r.Get("/by-riot-ids", itemHandler.GetByRiotIDs)
			r.Get("/riot/{riotId}", itemHandler.GetByRiotID)
			r.Get("/{id}", itemHandler.Get)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", referenceHandler.GetRoles)
			r.Get("/{id}", referenceHandler.GetRole)
		})

		r.Route("/summonerspells", func(r chi.Router) {
			r.Get("/", referenceHandler.GetSummonerSpells)
			r.Get("/{id}", referenceHandler.GetSummonerSpell)
		})

		r.Route("/matchups", func(r chi.Router) {
			r.Get("/", matchupHandler.GetAll)
			r.Get("/search", matchupHandler.Search)
			r.Get("/champion/{championId}", matchupHandler.GetByChampion)
			r.Get("/{id}", matchupHandler.Get)

			// Writes need a registered account
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RejectGuests)
				r.Post("/", matchupHandler.Create)
				r.Post("/get-or-create", matchupHandler.GetOrCreate)
				r.Post("/tips", matchupHandler.AddTip)
				r.Put("/{id}", matchupHandler.Update)
				r.Delete("/{id}", matchupHandler.Delete)
			})
		})

		r.Route("/riotsync", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(domain.AdminRole))
			r.Post("/sync-champions", syncHandler.SyncChampions)
			r.Post("/sync-runes", syncHandler.SyncRunes)
			r.Post("/sync-items", syncHandler.SyncItems)
			r.Post("/sync-all", syncHandler.SyncAll)
			r.Get("/version", syncHandler.Version)
		})

		r.Get("/ws", wsHandler.Handle)
	})

	return r
}

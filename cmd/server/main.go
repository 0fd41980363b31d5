package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/matchup-companion/internal/api"
	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/seed"
	"github.com/dom/matchup-companion/internal/service"
	"github.com/dom/matchup-companion/internal/websocket"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	configureLogging(cfg)

	gormLevel := logger.Warn
	if cfg.IsDevelopment() {
		gormLevel = logger.Info
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLevel)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	repos := postgres.NewRepositories(db)

	seedData, err := seed.Load()
	if err != nil {
		log.Fatalf("failed to load seed data: %v", err)
	}
	ctx := context.Background()
	if err := seed.Apply(ctx, repos, seedData); err != nil {
		log.Fatalf("failed to seed reference data: %v", err)
	}

	services := service.NewServices(repos, cfg)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := services.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.WithError(err).WithField("email", cfg.AdminEmail).Error("failed to ensure admin account")
		}
	}

	if cfg.SyncOnStartup {
		result := services.Sync.SyncEmpty(ctx, cfg.SyncLanguage)
		log.WithFields(log.Fields{
			"version":   result.Version,
			"champions": result.Champions,
			"runes":     result.Runes,
			"items":     result.Items,
		}).Info("startup sync finished")
	}
	if _, err := seed.SeedStarterChampions(ctx, repos.Champion, seedData); err != nil {
		log.WithError(err).Error("failed to seed starter champions")
	}

	hub := websocket.NewHub()
	go hub.Run()
	services.Matchup.SetNotifier(hub)

	router := api.NewRouter(services, hub, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // sync-all can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Info("Server stopped")
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dom/matchup-companion/internal/config"
	"github.com/dom/matchup-companion/internal/ddragon"
	"github.com/dom/matchup-companion/internal/repository/postgres"
	"github.com/dom/matchup-companion/internal/seed"
	"github.com/dom/matchup-companion/internal/service"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm/logger"
)

func main() {
	app := &cli.App{
		Name:  "matchupctl",
		Usage: "operate a matchup companion deployment",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			newSyncCommand(),
			newVersionCommand(),
			newAdminCommand(),
			newRemoteCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openServices connects to the configured database, migrates it and seeds
// the reference tables.
func openServices(ctx context.Context) (*service.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL, logger.Warn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	repos := postgres.NewRepositories(db)
	data, err := seed.Load()
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := seed.Apply(ctx, repos, data); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("seed reference data: %w", err)
	}

	return service.NewServices(repos, cfg), closeDB, nil
}

func newSyncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "import Data Dragon content straight into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "language", Value: service.DefaultSyncLanguage, Usage: "Data Dragon locale"},
			&cli.StringFlag{Name: "only", Value: "all", Usage: "champions, runes, items or all"},
		},
		Action: func(c *cli.Context) error {
			services, closeDB, err := openServices(c.Context)
			if err != nil {
				return err
			}
			defer closeDB()

			lang := c.String("language")
			var count int
			switch c.String("only") {
			case "champions":
				count, err = services.Sync.SyncChampions(c.Context, lang)
			case "runes":
				count, err = services.Sync.SyncRunes(c.Context, lang)
			case "items":
				count, err = services.Sync.SyncItems(c.Context, lang)
			case "all":
				result, err := services.Sync.SyncAll(c.Context, lang)
				if err != nil {
					return err
				}
				fmt.Printf("Synced version %s (%s): %d champions, %d runes, %d items\n",
					result.Version, result.Language, result.Champions, result.Runes, result.Items)
				return nil
			default:
				return fmt.Errorf("unknown sync target %q", c.String("only"))
			}
			if err != nil {
				return err
			}
			fmt.Printf("Synced %d %s (%s)\n", count, c.String("only"), lang)
			return nil
		},
	}
}

func newVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the Data Dragon version a sync would use",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := ddragon.NewClient(cfg.DataDragonBaseURL, cfg.DataDragonTimeout)
			versions := ddragon.NewVersionCache(client,
				ddragon.WithPinnedVersion(cfg.DataDragonVersion),
				ddragon.WithFallbackVersion(cfg.DataDragonFallbackVersion),
			)
			fmt.Println(versions.Current(c.Context))
			return nil
		},
	}
}

func newAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "manage accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "grant",
				Usage: "give an existing account a role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "role", Value: "Admin"},
				},
				Action: func(c *cli.Context) error {
					services, closeDB, err := openServices(c.Context)
					if err != nil {
						return err
					}
					defer closeDB()

					if err := services.Auth.GrantRole(c.Context, c.String("email"), c.String("role")); err != nil {
						return err
					}
					fmt.Printf("Granted %s to %s\n", c.String("role"), c.String("email"))
					return nil
				},
			},
			{
				Name:  "ensure",
				Usage: "create the admin account if it is missing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
				},
				Action: func(c *cli.Context) error {
					services, closeDB, err := openServices(c.Context)
					if err != nil {
						return err
					}
					defer closeDB()

					return services.Auth.EnsureAdmin(c.Context, c.String("email"), c.String("password"))
				},
			},
		},
	}
}

func newRemoteCommand() *cli.Command {
	urlFlag := &cli.StringFlag{Name: "url", Value: "http://localhost:8080", EnvVars: []string{"API_URL"}, Usage: "server base URL"}

	return &cli.Command{
		Name:  "remote",
		Usage: "drive a running server over HTTP",
		Subcommands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "trigger a sync on the server as an admin",
				Flags: []cli.Flag{
					urlFlag,
					&cli.StringFlag{Name: "email", Required: true, EnvVars: []string{"ADMIN_EMAIL"}},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
					&cli.StringFlag{Name: "only", Value: "all", Usage: "champions, runes, items or all"},
					&cli.StringFlag{Name: "language", Usage: "Data Dragon locale"},
				},
				Action: func(c *cli.Context) error {
					client := NewAPIClient(c.String("url"))
					if _, err := client.Login(c.String("email"), c.String("password")); err != nil {
						return err
					}

					result, err := client.Sync(c.String("only"), c.String("language"))
					if err != nil {
						return err
					}
					fmt.Printf("%s (%s): %d champions, %d runes, %d items\n",
						result.Message, result.Language, result.ChampionsSynced, result.RunesSynced, result.ItemsSynced)
					return nil
				},
			},
			{
				Name:  "matchup",
				Usage: "print the guide for a matchup",
				Flags: []cli.Flag{
					urlFlag,
					&cli.IntFlag{Name: "player", Required: true, Usage: "player champion id"},
					&cli.IntFlag{Name: "enemy", Required: true, Usage: "enemy champion id"},
					&cli.IntFlag{Name: "role", Required: true, Usage: "role id"},
				},
				Action: func(c *cli.Context) error {
					client := NewAPIClient(c.String("url"))
					m, err := client.FindMatchup(c.Int("player"), c.Int("enemy"), c.Int("role"))
					if err != nil {
						return err
					}

					fmt.Printf("%s vs %s (%s): %s\n", m.PlayerChampion.Name, m.EnemyChampion.Name, m.Role.Name, m.Difficulty)
					if m.GeneralAdvice != nil {
						fmt.Println(*m.GeneralAdvice)
					}
					for _, tip := range m.Tips {
						fmt.Printf("  [%d] %s: %s\n", tip.Priority, tip.Category, tip.Content)
					}
					return nil
				},
			},
		},
	}
}

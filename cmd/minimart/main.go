package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"MiniMart/internal/api"
	"MiniMart/internal/auth"
	"MiniMart/internal/catalog"
	"MiniMart/internal/platform"
	"MiniMart/pkg/kit"
)

const service = "minimart"

func main() {
	app := &cli.App{
		Name:  service,
		Usage: "in-memory catalog, cart and order registry",
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			tokenCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log, err := kit.NewLogger(service, cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := platform.New()
			s := &api.Server{
				Platform: p,
				JWT:      auth.NewTokenMaker(cfg.JWTSecret),
				Log:      log,
			}

			if cfg.DatabaseURL != "" {
				src, err := catalog.OpenPostgres(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer func() { _ = src.Close() }()

				n, err := p.Seed(ctx, src)
				if err != nil {
					return err
				}
				log.Info("catalog seeded", zap.Int("products", n))
				s.Source = src
			}

			h := api.NewHandler(s, api.HTTPDeps{
				Log:                log,
				Service:            service,
				Registry:           prometheus.NewRegistry(),
				MetricsEnabled:     cfg.MetricsEnabled,
				MetricsToken:       cfg.MetricsToken,
				WriteLimit:         cfg.WriteRateLimit,
				WriteWindowSeconds: cfg.RateWindowSeconds,
			})

			if err := kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log); err != nil {
				log.Error("http server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the products table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "database-url", EnvVars: []string{"DATABASE_URL"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			return catalog.Migrate(catalog.MigrateURL(c.String("database-url")))
		},
	}
}

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "user", Required: true},
			&cli.StringFlag{Name: "role", Value: auth.RoleUser},
			&cli.DurationFlag{Name: "ttl", Value: time.Hour},
			&cli.StringFlag{Name: "secret", EnvVars: []string{"JWT_SECRET"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			role := c.String("role")
			if role != auth.RoleUser && role != auth.RoleAdmin {
				return errors.New("role must be user or admin")
			}

			tok, err := auth.NewTokenMaker(c.String("secret")).New(c.Int("user"), role, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tok)
			return nil
		},
	}
}

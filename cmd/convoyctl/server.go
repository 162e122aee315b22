package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/cache"
	"github.com/convoyrelief/convoyd/pkg/config"
	"github.com/convoyrelief/convoyd/pkg/db"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/endpoints"
	gormstore "github.com/convoyrelief/convoyd/pkg/server/store/gorm"
	"github.com/convoyrelief/convoyd/pkg/token"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(config.EnvLogLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the convoyd application server",
	Long: `Run the convoyd application server.

To run the server requires the environment variables CONVOYD_JWT_SECRET and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		secret := config.JWTSecret()
		if len(secret) == 0 {
			return fmt.Errorf("%s environment variable is required", config.EnvJWTSecret)
		}
		if db.URL() == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			logger.Info("running database migrations")
			if err := runMigrations(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}

		conn, err := db.Connect(db.Config{})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		issuer, err := token.NewIssuer(secret, cfg.TokenLifetime())
		if err != nil {
			return err
		}
		verifier, err := token.NewVerifier(secret)
		if err != nil {
			return err
		}

		var profileCache authz.ProfileCache
		if cfg.ProfileCacheEnabled() {
			client, err := cache.New(ctx, cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()
			profileCache = cache.NewRedisProfileCache(client, cfg.ProfileCacheLifetime())
			logger.Info("profile cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.ProfileCacheLifetime())
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(server.Options{
			Config:     cfg,
			Subjects:   gormstore.NewSubjectStore(conn),
			Roles:      gormstore.NewRolesStore(conn),
			Health:     gormstore.NewHealthStore(conn),
			Convoys:    gormstore.NewConvoyStore(conn),
			Committees: gormstore.NewCommitteeStore(conn),
			Volunteers: gormstore.NewVolunteerStore(conn),
			Villages:   gormstore.NewVillageStore(conn),
			Issuer:     issuer,
			Verifier:   verifier,
			Cache:      profileCache,
			Logger:     logger,
			Host:       host,
			Port:       port,
		})
		endpoints.RegisterAll(s)

		logger.Info("running server", "address", fmt.Sprintf("http://%s:%s", host, port))
		return s.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

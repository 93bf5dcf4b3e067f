package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rigcheck/internal/manifest/cache"
	"rigcheck/internal/platform/config"
	"rigcheck/internal/platform/logger"
	"rigcheck/internal/platform/postgres"
	"rigcheck/internal/platform/redis"
)

// env carries what commands need from the process. Tests replace its fields.
type env struct {
	loadConfig func() (config.Config, error)
	openDB     func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error)
	openRedis  func(ctx context.Context, cfg config.RedisConfig) (cache.Deleter, func() error, error)
	clock      func() time.Time

	cfg config.Config
	log *slog.Logger
}

func defaultEnv() *env {
	return &env{
		loadConfig: config.Load,
		openDB:     postgres.Open,
		openRedis:  openRedis,
		clock:      time.Now,
	}
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (cache.Deleter, func() error, error) {
	client, err := redis.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, nil, errors.New("REDIS_URL is not set, the manifest cache is disabled")
	}
	return client, client.Close, nil
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "rigcheckctl",
		Short:         "Operate a rigcheck deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.NewWithWriter(os.Stderr, cfg.LogLevel)
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newSweepCmd(e),
		newStaleAuditsCmd(e),
		newPurgeOutboxCmd(e),
		newManifestInvalidateCmd(e),
		newTokenCmd(e),
	)
	return root
}

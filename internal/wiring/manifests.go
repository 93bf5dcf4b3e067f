package wiring

import (
	"context"
	"database/sql"
	"log/slog"

	inventoryservice "rigcheck/internal/inventory/service"
	"rigcheck/internal/manifest/cache"
	manifeststore "rigcheck/internal/manifest/store"
	"rigcheck/internal/platform/config"
	"rigcheck/internal/platform/redis"
)

func manifeststoreFor(db *sql.DB) inventoryservice.ManifestProvider {
	return manifeststore.NewPostgres(db)
}

// Manifests returns the postgres manifests behind the Redis cache when Redis is
// configured. The returned close func is never nil.
func Manifests(ctx context.Context, cfg config.RedisConfig, db *sql.DB, log *slog.Logger) (inventoryservice.ManifestProvider, func() error, error) {
	source := manifeststoreFor(db)
	client, err := redis.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		log.Info("redis not configured, manifest cache disabled")
		return source, func() error { return nil }, nil
	}
	return cache.New(source, client, cfg.ManifestTTL, log), client.Close, nil
}

// Package cache puts a Redis read-through cache in front of a manifest provider.
// Manifests change rarely and are read at the start of every check and audit.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"rigcheck/internal/manifest/models"
	id "rigcheck/pkg/domain"
	"rigcheck/pkg/platform/circuit"
)

const keyPrefix = "manifest:apparatus:"

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rigcheck_manifest_cache_lookups_total",
	Help: "Manifest cache lookups by result (hit, miss, error)",
}, []string{"result"})

// Provider is the uncached source.
type Provider interface {
	EntriesForApparatus(ctx context.Context, apparatusID id.ApparatusID) (models.Snapshot, error)
}

// Client is the subset of go-redis the read-through path uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Deleter is the subset of go-redis Invalidate uses.
type Deleter interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedProvider serves manifests from Redis and falls back to the source on a miss or
// on any Redis failure. Cache errors never fail a read. After repeated Redis failures the
// breaker opens: reads keep probing Redis but writes stop until it recovers.
type CachedProvider struct {
	source  Provider
	client  Client
	ttl     time.Duration
	logger  *slog.Logger
	breaker *circuit.Breaker
}

func New(source Provider, client Client, ttl time.Duration, logger *slog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProvider{
		source:  source,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		breaker: circuit.New("manifest-cache"),
	}
}

func key(apparatusID id.ApparatusID) string {
	return keyPrefix + apparatusID.String()
}

func (c *CachedProvider) EntriesForApparatus(ctx context.Context, apparatusID id.ApparatusID) (models.Snapshot, error) {
	raw, err := c.client.Get(ctx, key(apparatusID)).Bytes()
	switch {
	case err == nil:
		c.recordSuccess(ctx)
		var snapshot models.Snapshot
		if uerr := json.Unmarshal(raw, &snapshot); uerr == nil {
			lookups.WithLabelValues("hit").Inc()
			return snapshot, nil
		}
		lookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		c.recordSuccess(ctx)
		lookups.WithLabelValues("miss").Inc()
	default:
		lookups.WithLabelValues("error").Inc()
		c.recordFailure(ctx, apparatusID, err)
	}

	snapshot, err := c.source.EntriesForApparatus(ctx, apparatusID)
	if err != nil {
		return nil, err
	}
	if c.breaker.IsOpen() {
		return snapshot, nil
	}
	if body, merr := json.Marshal(snapshot); merr == nil {
		if serr := c.client.Set(ctx, key(apparatusID), body, c.ttl).Err(); serr != nil {
			c.recordFailure(ctx, apparatusID, serr)
		}
	}
	return snapshot, nil
}

func (c *CachedProvider) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "manifest cache recovered")
	}
}

func (c *CachedProvider) recordFailure(ctx context.Context, apparatusID id.ApparatusID, err error) {
	_, change := c.breaker.RecordFailure()
	switch {
	case change.Opened:
		c.logger.WarnContext(ctx, "manifest cache degraded, serving from source", "error", err)
	case !c.breaker.IsOpen():
		c.logger.WarnContext(ctx, "manifest cache call failed", "apparatus_id", apparatusID.String(), "error", err)
	}
}

// Invalidate drops the cached manifests of the given apparatus so the next read goes to
// the source. It returns how many cached manifests were present.
func Invalidate(ctx context.Context, client Deleter, apparatusIDs ...id.ApparatusID) (int64, error) {
	if len(apparatusIDs) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(apparatusIDs))
	for _, apparatusID := range apparatusIDs {
		keys = append(keys, key(apparatusID))
	}
	return client.Del(ctx, keys...).Result()
}

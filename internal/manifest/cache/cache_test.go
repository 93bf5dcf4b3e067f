package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rigcheck/internal/manifest/models"
	"rigcheck/internal/manifest/store"
	id "rigcheck/pkg/domain"
)

type fakeRedis struct {
	data    map[string]string
	readErr error
	sets    int
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.sets++
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type countingSource struct {
	inner *store.InMemoryStore
	calls int
}

func (c *countingSource) EntriesForApparatus(ctx context.Context, a id.ApparatusID) (models.Snapshot, error) {
	c.calls++
	return c.inner.EntriesForApparatus(ctx, a)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func seeded(t *testing.T) (*countingSource, id.ApparatusID, models.Entry) {
	t.Helper()
	apparatusID := id.ApparatusID(uuid.New())
	entry := models.Entry{
		ID:               id.ManifestEntryID(uuid.New()),
		ApparatusID:      apparatusID,
		CompartmentID:    id.CompartmentID(uuid.New()),
		EquipmentTypeID:  id.EquipmentTypeID(uuid.New()),
		RequiredQuantity: 2,
		IsCritical:       true,
	}
	mem := store.NewInMemoryStore()
	mem.Put(apparatusID, entry)
	return &countingSource{inner: mem}, apparatusID, entry
}

func TestCachedProvider_ReadThrough(t *testing.T) {
	source, apparatusID, entry := seeded(t)
	rdb := newFakeRedis()
	p := New(source, rdb, time.Minute, discard)

	first, err := p.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)
	second, err := p.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, rdb.sets)
	assert.Equal(t, models.Snapshot{entry}, first)
	assert.Equal(t, first, second)
}

func TestCachedProvider_FallsBackOnRedisError(t *testing.T) {
	source, apparatusID, _ := seeded(t)
	rdb := newFakeRedis()
	rdb.readErr = errors.New("connection refused")
	p := New(source, rdb, time.Minute, discard)

	snapshot, err := p.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)
	assert.Len(t, snapshot, 1)
	assert.Equal(t, 1, source.calls)
}

func TestInvalidate(t *testing.T) {
	source, apparatusID, _ := seeded(t)
	rdb := newFakeRedis()
	p := New(source, rdb, time.Minute, discard)

	_, err := p.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)
	n, err := Invalidate(context.Background(), rdb, apparatusID, id.ApparatusID(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "only the cached manifest is counted")
	_, err = p.EntriesForApparatus(context.Background(), apparatusID)
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)

	n, err = Invalidate(context.Background(), rdb)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCachedProvider_BreakerStopsWritesWhileRedisFails(t *testing.T) {
	source, apparatusID, _ := seeded(t)
	rdb := newFakeRedis()
	rdb.readErr = errors.New("i/o timeout")
	p := New(source, rdb, time.Minute, discard)
	ctx := context.Background()

	for range 5 {
		_, err := p.EntriesForApparatus(ctx, apparatusID)
		require.NoError(t, err)
	}
	assert.True(t, p.breaker.IsOpen())
	assert.Equal(t, 4, rdb.sets, "the read that opens the breaker skips the write")

	_, err := p.EntriesForApparatus(ctx, apparatusID)
	require.NoError(t, err)
	assert.Equal(t, 4, rdb.sets)

	rdb.readErr = nil
	for range 3 {
		_, err := p.EntriesForApparatus(ctx, apparatusID)
		require.NoError(t, err)
	}
	assert.False(t, p.breaker.IsOpen())
	assert.Equal(t, 6, source.calls)
}

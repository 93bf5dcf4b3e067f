package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingAbandoner struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	swept chan struct{}
}

func (r *recordingAbandoner) AbandonStaleChecks(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	r.calls = append(r.calls, now)
	r.mu.Unlock()
	select {
	case r.swept <- struct{}{}:
	default:
	}
	return 0, r.err
}

func (r *recordingAbandoner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	fixed := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	target := &recordingAbandoner{swept: make(chan struct{}, 1), err: errors.New("db down")}
	sweeper := NewSweeper(target,
		WithSweepInterval(5*time.Millisecond),
		WithSweepClock(func() time.Time { return fixed }),
		WithSweepLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-target.swept:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not tick")
		}
	}
	cancel()
	require.NoError(t, <-done)

	assert.GreaterOrEqual(t, target.count(), 3)
	target.mu.Lock()
	defer target.mu.Unlock()
	for _, at := range target.calls {
		assert.Equal(t, fixed, at)
	}
}

func TestSweeper_DefaultsIgnoreNonPositiveInterval(t *testing.T) {
	sweeper := NewSweeper(&recordingAbandoner{}, WithSweepInterval(0))
	assert.Equal(t, 5*time.Minute, sweeper.interval)
}

package service

import (
	"context"
	"log/slog"
	"time"
)

// StaleCheckAbandoner is implemented by Service.
type StaleCheckAbandoner interface {
	AbandonStaleChecks(ctx context.Context, now time.Time) (int, error)
}

// Sweeper periodically abandons checks left idle for longer than StaleCheckAfter.
type Sweeper struct {
	target   StaleCheckAbandoner
	interval time.Duration
	clock    func() time.Time
	logger   *slog.Logger
}

type SweeperOption func(*Sweeper)

func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithSweepClock(clock func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.clock = clock
	}
}

func WithSweepLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func NewSweeper(target StaleCheckAbandoner, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		target:   target,
		interval: 5 * time.Minute,
		clock:    time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	n, err := s.target.AbandonStaleChecks(ctx, s.clock())
	if err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "stale check sweep failed", "error", err, "abandoned", n)
	}
}

package relay

import (
	"context"
	"log/slog"
	"time"
)

// PublishedPurger deletes relayed outbox rows.
type PublishedPurger interface {
	PurgePublished(ctx context.Context, before time.Time) (int64, error)
}

// Purger trims relayed outbox rows older than the retention window. Unpublished rows are
// never touched.
type Purger struct {
	outbox    PublishedPurger
	retention time.Duration
	interval  time.Duration
	clock     func() time.Time
	logger    *slog.Logger
}

func NewPurger(outbox PublishedPurger, retention time.Duration, logger *slog.Logger) *Purger {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &Purger{
		outbox:    outbox,
		retention: retention,
		interval:  time.Hour,
		clock:     time.Now,
		logger:    logger,
	}
}

// PurgeOnce removes rows published before now minus the retention window.
func (p *Purger) PurgeOnce(ctx context.Context) (int64, error) {
	return p.outbox.PurgePublished(ctx, p.clock().Add(-p.retention))
}

// Run purges hourly until ctx is cancelled.
func (p *Purger) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		n, err := p.PurgeOnce(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			p.logger.ErrorContext(ctx, "outbox purge failed", "error", err)
		case n > 0:
			p.logger.InfoContext(ctx, "purged relayed outbox rows", "count", n)
		}
	}
}

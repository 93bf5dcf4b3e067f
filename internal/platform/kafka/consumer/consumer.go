package consumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of a consumed record handed to handlers.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes one message. Returning nil commits it; returning an error retries it.
// Handlers drop malformed messages by logging and returning nil.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Client is the subset of *kgo.Client the consumer uses.
type Client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
}

// Consumer polls, dispatches to the handler in partition order and commits processed
// records.
type Consumer struct {
	client  Client
	handler Handler
	logger  *slog.Logger
	backoff time.Duration
}

type Option func(*Consumer)

func WithRetryBackoff(d time.Duration) Option {
	return func(c *Consumer) {
		c.backoff = d
	}
}

func New(client Client, handler Handler, logger *slog.Logger, opts ...Option) *Consumer {
	c := &Consumer{client: client, handler: handler, logger: logger, backoff: time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if ctx.Err() != nil || fetches.IsClientClosed() {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		records := fetches.Records()
		processed := make([]*kgo.Record, 0, len(records))
		for _, rec := range records {
			if !c.handleWithRetry(ctx, rec) {
				break
			}
			processed = append(processed, rec)
		}
		if len(processed) > 0 {
			if err := c.client.CommitRecords(ctx, processed...); err != nil && ctx.Err() == nil {
				c.logger.ErrorContext(ctx, "kafka commit failed", "error", err, "records", len(processed))
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handleWithRetry retries until the handler succeeds or ctx ends. It reports whether the
// record was processed.
func (c *Consumer) handleWithRetry(ctx context.Context, rec *kgo.Record) bool {
	msg := &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Timestamp: rec.Timestamp,
	}
	for attempt := 1; ; attempt++ {
		err := c.handler.Handle(ctx, msg)
		if err == nil {
			return true
		}
		c.logger.ErrorContext(ctx, "kafka handler failed",
			"topic", rec.Topic,
			"partition", rec.Partition,
			"offset", rec.Offset,
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.backoff):
		}
	}
}

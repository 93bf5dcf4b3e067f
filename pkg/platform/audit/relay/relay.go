// Package relay moves committed outbox rows to a sink. Delivery is at least once: a row is
// marked published in the same transaction that read it, after the sink accepted it, so a
// crash between the two re-delivers and consumers dedupe on the event id.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "rigcheck/pkg/platform/audit"
	"rigcheck/pkg/platform/tx"
)

// Sink receives a batch of outbox entries. It either accepts the whole batch or errors.
type Sink interface {
	Publish(ctx context.Context, entries []audit.OutboxEntry) error
}

// Producer is the subset of *kgo.Client used by KafkaSink.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Topic names the Kafka topic for a category.
func Topic(prefix string, category audit.EventCategory) string {
	return prefix + "." + string(category)
}

// Topics lists every topic the relay can publish to.
func Topics(prefix string) []string {
	categories := audit.Categories()
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, Topic(prefix, c))
	}
	return out
}

// KafkaSink produces each entry to its category topic, keyed by aggregate so one
// session's events stay ordered within a partition.
type KafkaSink struct {
	producer    Producer
	topicPrefix string
}

func NewKafkaSink(producer Producer, topicPrefix string) *KafkaSink {
	return &KafkaSink{producer: producer, topicPrefix: topicPrefix}
}

func (s *KafkaSink) Publish(ctx context.Context, entries []audit.OutboxEntry) error {
	records := make([]*kgo.Record, 0, len(entries))
	for _, e := range entries {
		category := audit.AuditEvent(e.EventType).Category()
		records = append(records, &kgo.Record{
			Topic: Topic(s.topicPrefix, category),
			Key:   []byte(e.AggregateType + ":" + e.AggregateID),
			Value: e.Payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(e.EventType)},
				{Key: "outbox_id", Value: []byte(e.ID.String())},
			},
			Timestamp: e.CreatedAt,
		})
	}
	if err := s.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce outbox batch: %w", err)
	}
	return nil
}

// DirectSink materialises entries without a broker. Used when Kafka is not configured.
type DirectSink struct {
	materializer audit.Materializer
}

func NewDirectSink(m audit.Materializer) *DirectSink {
	return &DirectSink{materializer: m}
}

func (s *DirectSink) Publish(ctx context.Context, entries []audit.OutboxEntry) error {
	for _, e := range entries {
		var payload audit.Payload
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			return fmt.Errorf("decode outbox entry %s: %w", e.ID, err)
		}
		eventID, event, err := payload.Event()
		if err != nil {
			return fmt.Errorf("decode outbox entry %s: %w", e.ID, err)
		}
		if err := s.materializer.AppendWithID(ctx, eventID, event); err != nil {
			return err
		}
	}
	return nil
}

type Metrics struct {
	Published prometheus.Counter
	Failures  prometheus.Counter
	BatchLag  prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rigcheck_outbox_published_total",
			Help: "Outbox entries delivered to the sink",
		}),
		Failures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rigcheck_outbox_relay_failures_total",
			Help: "Relay batches that failed and will be retried",
		}),
		BatchLag: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rigcheck_outbox_lag_seconds",
			Help:    "Age of the oldest entry in each relayed batch",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
	}
}

// Relay polls the outbox and hands batches to a sink.
type Relay struct {
	outbox   audit.Outbox
	sink     Sink
	runner   tx.Runner
	interval time.Duration
	batch    int
	clock    func() time.Time
	logger   *slog.Logger
	metrics  *Metrics
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Relay) {
		r.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

func New(outbox audit.Outbox, sink Sink, runner tx.Runner, opts ...Option) *Relay {
	r := &Relay{
		outbox:   outbox,
		sink:     sink,
		runner:   runner,
		interval: time.Second,
		batch:    100,
		clock:    time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled. Batch failures are logged and retried next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		r.drain(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Relay) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := r.RelayOnce(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
			}
			return
		}
		if n < r.batch {
			return
		}
	}
}

// RelayOnce moves at most one batch and reports how many entries were delivered.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var delivered int
	err := r.runner.RunInTx(ctx, func(txCtx context.Context) error {
		entries, err := r.outbox.FetchUnpublished(txCtx, r.batch)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		if err := r.sink.Publish(txCtx, entries); err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		now := r.clock()
		if err := r.outbox.MarkPublished(txCtx, ids, now); err != nil {
			return err
		}
		if r.metrics != nil {
			r.metrics.BatchLag.Observe(now.Sub(entries[0].CreatedAt).Seconds())
		}
		delivered = len(entries)
		return nil
	})
	if err != nil {
		if r.metrics != nil {
			r.metrics.Failures.Inc()
		}
		return 0, err
	}
	if r.metrics != nil && delivered > 0 {
		r.metrics.Published.Add(float64(delivered))
	}
	return delivered, nil
}

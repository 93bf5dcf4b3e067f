package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/twmb/franz-go/pkg/kgo"

	inventoryhandler "rigcheck/internal/inventory/handler"
	inventoryservice "rigcheck/internal/inventory/service"
	issuehandler "rigcheck/internal/issue/handler"
	jwttoken "rigcheck/internal/jwt_token"
	"rigcheck/internal/platform/config"
	"rigcheck/internal/platform/kafka"
	"rigcheck/internal/platform/kafka/consumer"
	"rigcheck/internal/platform/metrics"
	"rigcheck/internal/platform/postgres"
	"rigcheck/internal/wiring"
	audit "rigcheck/pkg/platform/audit"
	auditconsumer "rigcheck/pkg/platform/audit/consumer"
	"rigcheck/pkg/platform/audit/relay"
	auditpostgres "rigcheck/pkg/platform/audit/store/postgres"
	"rigcheck/pkg/platform/httputil"
	"rigcheck/pkg/platform/middleware/admin"
	"rigcheck/pkg/platform/middleware/auth"
	"rigcheck/pkg/platform/middleware/metadata"
	"rigcheck/pkg/platform/middleware/request"
	"rigcheck/pkg/platform/middleware/requesttime"
	"rigcheck/pkg/platform/tx"
)

const shutdownGrace = 15 * time.Second

type worker struct {
	name string
	run  func(ctx context.Context) error
}

// app holds the wired process: the router, the background workers and the resources
// to release on exit.
type app struct {
	router  http.Handler
	workers []worker
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	manifests, closeManifests, err := wiring.Manifests(ctx, cfg.Redis, db, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeManifests)

	svc, err := wiring.NewServices(db, cfg, log, manifests)
	if err != nil {
		return nil, err
	}

	tokens := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)
	a.router = newRouter(routerDeps{
		log:       log,
		db:        db,
		validator: jwttoken.NewJWTServiceAdapter(tokens),
		opsToken:  cfg.Server.OpsToken,
		inventory: inventoryhandler.New(svc.Inventory, log),
		issues:    issuehandler.New(svc.Issues, log),
	})

	if cfg.Sweeper.Enabled {
		sweeper := inventoryservice.NewSweeper(svc.Inventory,
			inventoryservice.WithSweepInterval(cfg.Sweeper.Interval),
			inventoryservice.WithSweepLogger(log),
		)
		a.workers = append(a.workers, worker{name: "stale-check-sweeper", run: sweeper.Run})
	}

	purger := relay.NewPurger(svc.AuditStore, cfg.Outbox.Retention, log)
	a.workers = append(a.workers, worker{name: "outbox-purger", run: purger.Run})

	return a, wireAuditPipeline(ctx, cfg, log, a, svc.AuditStore, svc.Tx)
}

// wireAuditPipeline starts the outbox relay. With brokers configured the relay produces
// to Kafka and a consumer materialises the trail; otherwise the relay writes the trail
// directly.
func wireAuditPipeline(ctx context.Context, cfg config.Config, log *slog.Logger, a *app, store *auditpostgres.Store, runner tx.Runner) error {
	relayOpts := []relay.Option{
		relay.WithInterval(cfg.Outbox.PollInterval),
		relay.WithBatchSize(cfg.Outbox.BatchSize),
		relay.WithLogger(log),
		relay.WithMetrics(relay.NewMetrics()),
	}

	if !cfg.Kafka.Enabled() {
		log.Info("kafka not configured, relaying audit events directly")
		r := relay.New(store, relay.NewDirectSink(store), runner, relayOpts...)
		a.workers = append(a.workers, worker{name: "outbox-relay", run: r.Run})
		return nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeClient(producer))

	topics := relay.Topics(cfg.Kafka.TopicPrefix)
	if err := kafka.EnsureTopics(ctx, producer, cfg.Kafka.Partitions, cfg.Kafka.Replication, topics...); err != nil {
		return err
	}
	r := relay.New(store, relay.NewKafkaSink(producer, cfg.Kafka.TopicPrefix), runner, relayOpts...)
	a.workers = append(a.workers, worker{name: "outbox-relay", run: r.Run})

	client, err := kafka.NewConsumer(cfg.Kafka, topics...)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeClient(client))

	router := auditconsumer.NewRouter(cfg.Kafka.TopicPrefix, log, auditconsumer.NewEventHandler(store, log))
	router.Register(audit.CategorySecurity,
		auditconsumer.NewEventHandler(store, log, auditconsumer.WithAlerting()))
	c := consumer.New(client, router, log)
	a.workers = append(a.workers, worker{name: "audit-consumer", run: c.Run})
	return nil
}

func closeClient(c *kgo.Client) func() error {
	return func() error {
		c.Close()
		return nil
	}
}

type routerDeps struct {
	log       *slog.Logger
	db        *sql.DB
	validator auth.TokenValidator
	opsToken  string
	inventory *inventoryhandler.Handler
	issues    *issuehandler.Handler
}

func newRouter(d routerDeps) http.Handler {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(d.log))
	r.Use(request.Logger(d.log))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(m.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := d.db.PingContext(req.Context()); err != nil {
			d.log.WarnContext(req.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(admin.RequireOpsToken(d.opsToken, d.log)).Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.validator, d.log))
		d.inventory.Register(r)
		d.issues.Register(r)
	})
	return r
}

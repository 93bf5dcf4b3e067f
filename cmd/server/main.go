package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"rigcheck/internal/platform/config"
	"rigcheck/internal/platform/httpserver"
	"rigcheck/internal/platform/logger"
)

// main wires high-level dependencies, exposes the HTTP router and runs the background
// workers. Business logic lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := httpserver.New(cfg.Server.Addr, app.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting rigcheck", "addr", cfg.Server.Addr)
		return httpserver.Serve(gctx, srv, shutdownGrace)
	})
	for _, w := range app.workers {
		g.Go(func() error {
			log.Info("starting worker", "worker", w.name)
			return w.run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("rigcheck stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("rigcheck stopped")
}

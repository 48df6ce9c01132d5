package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/httpserver"
	"bloodlink/internal/platform/logger"
	"bloodlink/internal/platform/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	in, err := openInfra(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open infrastructure: %w", err)
	}

	a, err := newApp(cfg, in, log, m)
	if err != nil {
		in.Close(context.Background())
		return err
	}
	srv := httpserver.New(cfg.Addr, newRouter(cfg, a, in, log, m))

	log.Info("starting bloodlink", "env", cfg.Environment)
	err = httpserver.Run(ctx, srv, cfg.ShutdownTimeout, log)
	in.Close(context.Background())
	return err
}

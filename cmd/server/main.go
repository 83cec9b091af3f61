package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pulse-social/pulse/internal/config"
	"github.com/pulse-social/pulse/pkg/logger"
	"github.com/pulse-social/pulse/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pulse: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config")
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return errors.Wrap(err, "logger")
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.Server.Mode)
	if cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET not set, signing tokens with the development key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	sentryEnabled, err := telemetry.SetupSentry(cfg.Sentry)
	if err != nil {
		return errors.Wrap(err, "sentry")
	}
	if sentryEnabled {
		defer telemetry.FlushSentry()
	}

	srv, err := NewServer(cfg, sentryEnabled)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}

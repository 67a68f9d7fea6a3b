package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwise1/travelog/config"
	deps "github.com/bwise1/travelog/internal/debs"
	api "github.com/bwise1/travelog/internal/http/rest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func main() {
	cfg, err := config.New()
	if err != nil {
		newLogger("info").Fatal("failed to load configuration", zap.Error(err))
	}
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := deps.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialise dependencies", zap.Error(err))
	}

	a := &api.API{
		Config: cfg,
		Deps:   deps,
		DB:     deps.Pool(),
	}
	go deps.WebSocket.Run(ctx)
	go func() {
		logger.Info("server running", zap.Int("port", cfg.Port))
		if err := a.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	logger.Info("shutdown requested", zap.Duration("grace", allowConnectionsAfterShutdown))
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	if err := a.Shutdown(); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	cancel()
	deps.DB.Close()
	logger.Info("database connections closed")
}

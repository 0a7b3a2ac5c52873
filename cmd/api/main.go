// Package main starts the HTTP server that registers metabolic models,
// stores their filters and exports the extracted networks.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gemtract/core/internal/config"
	"github.com/gemtract/core/internal/handlers"
	"github.com/gemtract/core/internal/metrics"
	"github.com/gemtract/core/internal/service"
	"github.com/gemtract/core/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	store, err := storage.Open(cfg.ArtifactDir)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector("gemtract")
	}

	svc, err := service.New(store, cfg.ModelCacheSize, collector, logger)
	if err != nil {
		return err
	}
	h := handlers.New(svc, logger, cfg.MaxModelBytes)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      newRouter(cfg, h, collector, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", string(cfg.Environment)),
			zap.String("artifact_store", string(store.Driver())),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

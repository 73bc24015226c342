package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bowling/internal/app"
	"bowling/internal/config"
	"bowling/internal/logging"
	"bowling/internal/repository"
	"bowling/internal/repository/memory"
	"bowling/internal/repository/sqlite"
	httpTransport "bowling/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("BOWLING_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting bowling score server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	results, err := openResults(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open result archive", zap.Error(err))
	}
	defer results.Close()

	// Create game hub
	hub := app.NewGameHub(cfg.Game, results, logger)
	defer hub.Close()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, hub, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// openResults builds the archive selected by the storage config
func openResults(cfg config.StorageConfig) (repository.ResultRepository, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.NewResultRepository(cfg.Path)
	default:
		return memory.NewResultRepository(), nil
	}
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/jskrn-1911/clover-backend/internal/core/config"
	"github.com/jskrn-1911/clover-backend/internal/infra/dispatch"
	"github.com/jskrn-1911/clover-backend/internal/infra/gateway"
	redisclient "github.com/jskrn-1911/clover-backend/internal/infra/redis"
	httptransport "github.com/jskrn-1911/clover-backend/internal/transport/http"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Credentials come from the environment; a .env file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	}))
	slog.SetDefault(logger)
	slog.Info("Logger initialized", "level", slogLevel.String())

	// One dispatcher for the whole process; every outbound gateway
	// call is serialized through it.
	disp := dispatch.New(cfg.Dispatch.Capacity, cfg.Dispatch.MinInterval)
	client := gateway.NewClient(cfg.Clover, cfg.Retry.Policy(), disp, logger)

	var handler *httptransport.Handler
	if cfg.Redis.URL != "" {
		store, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		handler = httptransport.New(client, store, logger)
		slog.Info("Idempotency store enabled")
	} else {
		handler = httptransport.New(client, nil, logger)
	}

	srv := httptransport.NewServer(handler, logger, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	slog.Info("Server started", "port", cfg.Server.Port)

	// Handle OS Signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
		return
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	}

	// Graceful Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}

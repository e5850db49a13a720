// cmd/api/main.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"flightscout/internal/adapter/amadeus"
	"flightscout/internal/adapter/events"
	"flightscout/internal/config"
	"flightscout/internal/server"
	"flightscout/internal/service/lookup"
	"flightscout/internal/service/search"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.Environment)
	slog.SetDefault(logger)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Resolve upstream credentials
	cfg.Amadeus, err = resolveCredentials(ctx, cfg.Amadeus)
	if err != nil {
		logger.Error("Failed to resolve Amadeus credentials", "error", err)
		os.Exit(1)
	}

	// Initialize event bus
	bus, err := initBus(cfg.NATS, logger)
	if err != nil {
		logger.Error("Failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	// Initialize upstream client
	client := amadeus.NewClient(amadeus.Config{
		BaseURL:    cfg.Amadeus.BaseURL,
		APIKey:     cfg.Amadeus.APIKey,
		APISecret:  cfg.Amadeus.APISecret,
		Timeout:    cfg.Amadeus.Timeout,
		Adults:     cfg.Search.Adults,
		MaxResults: cfg.Search.MaxResults,
		Currency:   cfg.Search.Currency,
	}, amadeus.WithLogger(logger))

	// Initialize services
	lookupService := lookup.NewService(client, logger, lookup.Config{
		MinQueryLength: cfg.Lookup.MinQueryLength,
		Debounce:       cfg.Lookup.Debounce,
	})
	orchestrator := search.NewOrchestrator(client, search.NewTrendSynthesizer(nil), logger, search.OrchestratorConfig{
		FallbackBasePrice: cfg.Search.FallbackBasePrice,
	})

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Dependencies{
		Searcher:      orchestrator,
		Lookup:        lookupService,
		Bus:           bus,
		SubjectPrefix: cfg.NATS.SubjectPrefix,
		PageSize:      cfg.Search.PageSize,
	})

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("Shutdown complete")
}

// resolveCredentials reads credentials from Secrets Manager when a secret ID
// is configured
func resolveCredentials(ctx context.Context, cfg config.AmadeusConfig) (config.AmadeusConfig, error) {
	if cfg.SecretID == "" {
		return cfg, config.ValidateCredentials(cfg)
	}
	client, err := config.NewSecretsClient()
	if err != nil {
		return cfg, err
	}
	return config.ResolveCredentials(ctx, cfg, client)
}

// Initialize the event bus. Without NATS, session events stay in process.
func initBus(cfg config.NATSConfig, logger *slog.Logger) (events.Bus, error) {
	if !cfg.Enabled {
		logger.Info("NATS disabled, using in-process event bus")
		return events.NewLocalBus(), nil
	}

	bus, err := events.Connect(events.NATSConfig{
		URL:            cfg.URL,
		Name:           "flightscout-api",
		MaxReconnects:  cfg.MaxReconnects,
		ReconnectWait:  cfg.ReconnectWait,
		ConnectTimeout: cfg.ConnectTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to NATS", "url", cfg.URL)
	return bus, nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wisdomwealth-lab/internal/agents"
	"wisdomwealth-lab/internal/api"
	"wisdomwealth-lab/internal/api/handlers"
	"wisdomwealth-lab/internal/config"
	"wisdomwealth-lab/internal/domain/services"
	"wisdomwealth-lab/internal/infrastructure/cache"
	"wisdomwealth-lab/internal/infrastructure/database"
	"wisdomwealth-lab/internal/infrastructure/database/repository"
	"wisdomwealth-lab/internal/patterns"
	"wisdomwealth-lab/internal/streaming"
	"wisdomwealth-lab/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting WisdomWealth Lab")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisCache.Close()

	// Initialize repositories and schema
	repos := repository.New(db)
	if err := repos.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database schema")
	}
	log.Info().Msg("repositories initialized")

	// Initialize streaming infrastructure
	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without alert streaming")
		} else {
			defer natsPublisher.Close()
			log.Info().Str("url", cfg.NATS.URL).Msg("connected to NATS")
		}
	}

	// Seed the scam pattern corpus
	patternStore := patterns.NewStore(cfg.Patterns.SimilarityThreshold, cfg.Patterns.MaxMatches, log)

	// Optional LLM refinement client (nil when no API key is configured)
	llm := agents.NewLLMClient(cfg.LLM, log)

	// Register advisory agents
	registry := agents.NewRegistry(
		agents.NewFraudAgent(patternStore, log),
		agents.NewHealthcareAgent(llm, log),
		agents.NewEstateAgent(llm, log),
		agents.NewFamilyAgent(llm, log),
	)
	log.Info().Interface("agents", registry.Availability()).Msg("advisory agents registered")

	// Initialize services
	aggregator := services.NewAggregator(registry, cfg.Agents.Timeout, log)

	var publisher services.AlertPublisher
	if natsPublisher != nil {
		publisher = natsPublisher
	}
	escalation := services.NewEscalationController(repos.Preferences, repos.Alerts, registry, publisher, log)
	coordinator := services.NewCoordinator(aggregator, escalation, repos.Incidents, log)

	// Alert delivery worker marks queued alerts SENT as events arrive
	if natsPublisher != nil {
		delivery := streaming.NewDeliveryWorker(natsPublisher, repos.Alerts, log)
		go func() {
			if err := delivery.Run(ctx); err != nil {
				log.Warn().Err(err).Msg("alert delivery worker stopped")
			}
		}()
	}

	// Retention sweeper for the incident ledger
	sweeper := services.NewRetentionSweeper(repos, redisCache, cfg.Retention.SweepInterval, cfg.Retention.Days, log)
	if cfg.Retention.Enabled {
		go func() {
			if err := sweeper.Start(ctx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("retention sweeper stopped with error")
			}
		}()
	}

	// Initialize handlers
	deps := handlers.Dependencies{
		Config:      cfg,
		Coordinator: coordinator,
		Registry:    registry,
		Patterns:    patternStore,
		Cache:       redisCache,
		Repos:       repos,
		Logger:      log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Cancel context to stop background services
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	sweeper.Stop()

	log.Info().Msg("shutdown complete")
}

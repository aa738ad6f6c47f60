package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/askdb/askdb/internal/api"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/migrations"
	"github.com/askdb/askdb/internal/nl2sql"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/pipeline"
	querysqlite "github.com/askdb/askdb/internal/query/sqlite"
	"github.com/askdb/askdb/internal/schema"
	storesqlite "github.com/askdb/askdb/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadFromEnv("askdb-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	_, statErr := os.Stat(cfg.Store.Path)
	firstRun := os.IsNotExist(statErr)

	db, err := storesqlite.Open(context.Background(), storesqlite.DBConfig{
		Path:         cfg.Store.Path,
		BusyTimeout:  cfg.Store.BusyTimeout,
		MaxOpenConns: cfg.Store.MaxOpenConns,
	})
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := migrations.Up(context.Background(), db); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	if firstRun || cfg.Store.SeedOnCreate {
		if err := storesqlite.Seed(context.Background(), db, storesqlite.SeedConfig{
			ExtraSales: cfg.Store.SeedExtra,
			Random:     cfg.Store.SeedRandom,
		}); err != nil {
			logger.Error("failed to seed store", slog.Any("error", err))
			os.Exit(1)
		}
	}

	repo := storesqlite.NewRepository(db)
	descriptor := schema.Default()

	var translator nl2sql.Translator
	if cfg.TranslationEnabled() {
		translator, err = nl2sql.NewOpenAITranslator(nl2sql.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize query translator", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Warn("no api key configured; /v1/ask is disabled, /v1/query remains available")
	}

	askPipeline, err := pipeline.New(pipeline.Config{
		Translator:   translator,
		Engine:       querysqlite.NewEngine(db),
		SystemPrompt: nl2sql.BuildSystemPrompt(descriptor),
		RowLimit:     cfg.Store.RowLimit,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to build ask pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Store:             repo,
		Pipeline:          askPipeline,
		Schema:            descriptor,
		Readiness:         api.CombineReadinessChecks(repo.HealthCheck),
		DependencyTimeout: time.Second,
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finbot/internal/api/handlers"
	"github.com/dvloznov/finbot/internal/api/middleware"
	"github.com/dvloznov/finbot/internal/category"
	"github.com/dvloznov/finbot/internal/classifier"
	"github.com/dvloznov/finbot/internal/config"
	"github.com/dvloznov/finbot/internal/currency"
	"github.com/dvloznov/finbot/internal/ingest"
	"github.com/dvloznov/finbot/internal/jobs"
	"github.com/dvloznov/finbot/internal/jobs/inmemory"
	"github.com/dvloznov/finbot/internal/logger"
	"github.com/dvloznov/finbot/internal/message"
	"github.com/dvloznov/finbot/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("FINBOT_CONFIG"), "Path to finbot.yaml (or set FINBOT_CONFIG env)")
		addr       = flag.String("addr", "", "HTTP listen address, overrides the config")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			bootLog := logger.New()
			bootLog.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.NewWithLevel(cfg.Log.Level)
	ctx := context.Background()

	// Storage backend.
	var store storage.Store
	switch cfg.Storage.Driver {
	case "mysql":
		sqlStore, err := storage.Open(cfg.Storage.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open storage")
		}
		store = sqlStore
	case "memory", "":
		log.Warn().Msg("Using in-memory storage - data is lost on restart")
		store = storage.NewMemory()
	default:
		log.Fatal().Str("driver", cfg.Storage.Driver).Msg("Unknown storage driver")
	}

	// Category resolution chain.
	var gateway category.Gateway
	if cfg.Classifier.Enabled {
		gw, err := classifier.NewGemini(ctx, cfg.Classifier.Model, cfg.Classifier.Timeout)
		if err != nil {
			log.Warn().Err(err).Msg("Classifier unavailable - labels fall back to the dictionary")
		} else {
			gateway = gw
		}
	}
	resolver := category.NewWithConfig(
		store.Cache(),
		category.NewDictionaryMatcher(category.DefaultKeywords()),
		gateway,
		category.Config{
			DictionaryThreshold: cfg.Resolver.DictionaryThreshold,
			MaxExamples:         cfg.Resolver.MaxExamples,
		},
	)

	parser := message.NewParser(currency.NewConverter(cfg.Currency.Base, cfg.Currency.Rates))
	svc := ingest.NewService(parser, resolver, store)

	// Job infrastructure for asynchronous ingestion.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.Queue.BufferSize, cfg.Queue.Workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(logger.WithContext(ctx, log))
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		ingestJob, ok := job.(*jobs.IngestMessageJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		tx, err := svc.IngestText(ctx, ingestJob.UserID, ingestJob.Text)
		if errors.Is(err, message.ErrNotTransaction) {
			return &jobs.ErrNotRetryable{Err: err}
		}
		if err != nil {
			return err
		}

		ingestJob.TransactionID = tx.ID
		return nil
	}

	go func() {
		log.Info().Msg("Starting ingestion worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Ingestion worker stopped with error")
		}
	}()

	// Handlers.
	messagesHandler := handlers.NewMessagesHandler(svc, jobQueue, log)
	transactionsHandler := handlers.NewTransactionsHandler(store, log)
	categoriesHandler := handlers.NewCategoriesHandler(store, resolver, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	// Router.
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/messages", messagesHandler.Ingest)
	mux.HandleFunc("GET /api/v1/transactions", transactionsHandler.List)
	mux.HandleFunc("DELETE /api/v1/transactions/last", transactionsHandler.DeleteLast)
	mux.HandleFunc("GET /api/v1/summary", transactionsHandler.Summary)
	mux.HandleFunc("GET /api/v1/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/v1/corrections", categoriesHandler.Correct)
	mux.HandleFunc("GET /api/v1/jobs", jobsHandler.List)
	mux.HandleFunc("GET /api/v1/jobs/{id}", jobsHandler.Get)
	mux.HandleFunc("GET /health", handlers.Health)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}

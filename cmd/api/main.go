package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"honeypot-lab/internal/api"
	"honeypot-lab/internal/api/handlers"
	"honeypot-lab/internal/config"
	"honeypot-lab/internal/domain/services"
	"honeypot-lab/internal/domain/services/ai"
	"honeypot-lab/internal/domain/services/detection"
	"honeypot-lab/internal/domain/services/engagement"
	"honeypot-lab/internal/domain/services/extraction"
	"honeypot-lab/internal/domain/services/session"
	"honeypot-lab/internal/infrastructure/cache"
	"honeypot-lab/internal/infrastructure/database"
	"honeypot-lab/internal/infrastructure/report"
	"honeypot-lab/internal/infrastructure/sessionstore"
	"honeypot-lab/internal/infrastructure/urlresolver"
	"honeypot-lab/pkg/logger"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		TimeFormat: cfg.Logger.TimeFormat,
	})

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting honeypot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store: Redis when reachable, in-process fallback otherwise
	var (
		redisCache *cache.RedisCache
		store      session.Store
	)
	redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, sessions will not survive a restart")
		store = sessionstore.NewMemoryStore()
	} else {
		store = sessionstore.NewRedisStore(redisCache)
	}
	defer store.Close()

	// Optional report journal
	var (
		db      *database.PostgresDB
		journal services.ReportJournal
	)
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable, report journal disabled")
		} else {
			defer db.Close()
			j, err := database.NewJournal(ctx, db, log)
			if err != nil {
				log.Warn().Err(err).Msg("report journal setup failed")
			} else {
				journal = j
			}
		}
	}

	// Detection tiers
	rules := detection.NewRuleScorer()
	patterns := detection.NewPatternDB(log)
	if err := patterns.LoadFile(cfg.Data.PatternsFile); err != nil {
		log.Warn().Err(err).Str("path", cfg.Data.PatternsFile).Msg("pattern dataset unavailable, exact/fuzzy matching disabled")
	}
	urlScorer := detection.NewURLScorer(log)
	if err := urlScorer.LoadBlacklist(cfg.Data.BlacklistFile); err != nil {
		log.Warn().Err(err).Str("path", cfg.Data.BlacklistFile).Msg("URL blacklist unavailable, using built-in defaults")
	}

	// LLM collaborators, nil when disabled
	var (
		classifier detection.Classifier
		validator  detection.Validator
		generator  engagement.Generator
	)
	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		llm := ai.NewClient(ai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
			MaxRetries:  cfg.LLM.MaxRetries,
		}, log)
		classifier = llm
		validator = llm
		generator = llm
		log.Info().Str("model", cfg.LLM.Model).Msg("LLM collaborators enabled")
	} else {
		log.Info().Msg("LLM disabled, running on heuristics and reply templates")
	}

	pipeline := detection.NewPipeline(rules, patterns, urlScorer, classifier, validator, log)
	resolver := urlresolver.New(cfg.Resolver.Timeout, log)
	extractor := extraction.NewEngine(resolver, urlScorer, log)
	engager := engagement.NewEngine(generator, log)
	sessions := session.NewAggregator(store, cfg.Session.TTL, log)

	var sink services.ReportSink
	if cfg.Report.Enabled && cfg.Report.URL != "" {
		sink = report.NewSink(report.Config{
			URL:     cfg.Report.URL,
			Timeout: cfg.Report.Timeout,
			Retries: cfg.Report.Retries,
			Backoff: cfg.Report.Backoff,
		}, log)
	}

	honeypot := services.NewHoneypot(pipeline, extractor, engager, sessions, sink, journal, log)

	h := handlers.New(honeypot, redisCache, db, log)
	router := api.NewRouter(*cfg, h, redisCache, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// give in-flight report dispatch goroutines a moment
	time.Sleep(100 * time.Millisecond)
	log.Info().Msg("shutdown complete")
}

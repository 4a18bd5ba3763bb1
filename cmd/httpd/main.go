package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonesrussell/campuswatch/internal/api"
	"github.com/jonesrussell/campuswatch/internal/auth"
	"github.com/jonesrussell/campuswatch/internal/classifier"
	"github.com/jonesrussell/campuswatch/internal/config"
	"github.com/jonesrussell/campuswatch/internal/database"
	"github.com/jonesrussell/campuswatch/internal/insights"
	"github.com/jonesrussell/campuswatch/internal/llm"
	"github.com/jonesrussell/campuswatch/internal/logger"
	"github.com/jonesrussell/campuswatch/internal/newsapi"
	"github.com/jonesrussell/campuswatch/internal/pipeline"
	"github.com/jonesrussell/campuswatch/internal/predictor"
	"github.com/jonesrussell/campuswatch/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yml", "path to the config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Service.Debug,
	})
	defer log.Sync()

	log.Info("starting campuswatch",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Error("database connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Error("database migration failed", logger.Error(err))
		os.Exit(1)
	}

	metrics := telemetry.NewProvider()

	var chat llm.Chat
	if cfg.Anthropic.APIKey != "" {
		chat = llm.NewAnthropicChat(cfg.Anthropic.APIKey)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, predictions will use fallbacks")
	}

	scorer := classifier.NewScorer()
	search := newsapi.NewClient(cfg.NewsAPI.APIKey)
	fetcher := pipeline.NewFetcher(search, scorer, log, metrics.Metrics)
	generator := predictor.NewGenerator(chat, log, metrics.Metrics)

	insightsSvc := insights.NewService(
		fetcher,
		generator,
		database.NewAnalysisRepository(db),
		database.NewArticleRepository(db),
		log,
		metrics.Metrics,
		insights.Options{
			LocationFilter: cfg.NewsAPI.LocationFilter,
			MaxArticles:    cfg.NewsAPI.MaxArticles,
			Freshness:      cfg.Cache.Freshness,
			HasCredentials: cfg.NewsAPI.APIKey != "",
		},
	)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry())
	handler := api.NewHandler(
		database.NewUserRepository(db),
		database.NewReportRepository(db),
		database.NewSOSRepository(db),
		insightsSvc,
		jwtManager,
		log,
		cfg.Service.Version,
	)

	server := api.NewServer(handler, jwtManager, metrics.Handler(), api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, log)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("server error", logger.Error(err))
		os.Exit(1)
	case sig := <-shutdown:
		log.Info("shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info("server stopped gracefully")
	}
}

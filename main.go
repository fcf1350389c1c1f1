package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/health-tracker/internal/bot"
	"github.com/vladimiradmaev/health-tracker/internal/bot/handlers"
	"github.com/vladimiradmaev/health-tracker/internal/bot/state"
	"github.com/vladimiradmaev/health-tracker/internal/calculator"
	"github.com/vladimiradmaev/health-tracker/internal/config"
	"github.com/vladimiradmaev/health-tracker/internal/database"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/repository"
	"github.com/vladimiradmaev/health-tracker/internal/services"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(cfg.LoggerConfig()); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()

	if envErr != nil {
		logger.Warn(".env file not found, using environment only")
	}
	logger.Info("Starting Health Tracker Bot...",
		"db_driver", cfg.DB.Driver,
		"session_backend", cfg.Session.Backend,
		"workers", cfg.BotWorkers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Bot stopped with error", "error", err)
		logger.Close()
		os.Exit(1)
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStore(cfg.DB)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, closeSessions, err := openSessions(cfg.Session)
	if err != nil {
		return err
	}
	defer closeSessions()

	weather := services.NewWeatherService(cfg.Lookup.OpenWeatherAPIKey, cfg.Lookup.OpenWeatherURL, cfg.Lookup.Timeout)

	aiService, err := services.NewAIService(
		cfg.Lookup.GeminiAPIKey, cfg.Lookup.GeminiModel,
		cfg.Lookup.OpenAIAPIKey, cfg.Lookup.OpenAIModel,
		cfg.Lookup.Timeout,
	)
	if err != nil {
		return err
	}
	defer aiService.Close()

	var lookups calculator.FoodLookups
	if cfg.Lookup.FoodLookupURL != "" {
		lookups = append(lookups, services.NewFoodLookupService(cfg.Lookup.FoodLookupURL, cfg.Lookup.Timeout))
	}
	if aiService.Enabled() {
		lookups = append(lookups, aiService)
	}
	logger.Info("Food lookups configured", "count", len(lookups), "ai", aiService.Enabled())

	ledger := services.NewLedgerService(store, nil)
	onboarding := services.NewOnboardingService(sessions, store, weather, nil)
	tracker := services.NewTrackerService(ledger, onboarding, calculator.NewFoodCalorieResolver(lookups), weather)
	logger.Info("Services initialized successfully")

	telegramBot, err := bot.NewBot(cfg.TelegramToken, handlers.Dependencies{Tracker: tracker}, cfg.BotWorkers)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telegramBot.Start(ctx)
	})
	logger.Info("Bot is running. Press Ctrl+C to stop.")
	return g.Wait()
}

func openStore(cfg config.DBConfig) (domain.Store, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	return repository.NewStore(db), func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}, nil
}

func openSessions(cfg config.SessionConfig) (domain.SessionStore, func(), error) {
	if cfg.Backend != config.SessionRedis {
		return state.NewManager(), func() {}, nil
	}

	manager, err := state.NewRedisManager(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Redis session store connected", "host", cfg.RedisHost, "port", cfg.RedisPort)

	return manager, func() {
		if err := manager.Close(); err != nil {
			logger.Warn("Failed to close redis", "error", err)
		}
	}, nil
}

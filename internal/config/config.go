package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	TelegramToken string
	BotWorkers    int
	Lookup        LookupConfig
	DB            DBConfig
	Session       SessionConfig
	Logger        LoggerConfig
}

type LookupConfig struct {
	OpenWeatherAPIKey string
	OpenWeatherURL    string
	FoodLookupURL     string
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string
	Timeout           time.Duration
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

type SessionConfig struct {
	Backend       string
	RedisHost     string
	RedisPort     string
	RedisPassword string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
	SentryDSN  string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, value)
	}
	return n, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, value)
	}
	return d, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	workers, err := getIntOrDefault("BOT_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	timeout, err := getDurationOrDefault("LOOKUP_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		BotWorkers:    workers,
		Lookup: LookupConfig{
			OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
			OpenWeatherURL:    getEnvOrDefault("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
			FoodLookupURL:     getEnvOrDefault("FOOD_LOOKUP_URL", "https://world.openfoodfacts.org/cgi/search.pl"),
			GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
			GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
			OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:           timeout,
		},
		DB: DBConfig{
			Driver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverPostgres)),
			Host:       getEnvOrDefault("DB_HOST", "localhost"),
			Port:       getEnvOrDefault("DB_PORT", "5432"),
			User:       getEnvOrDefault("DB_USER", "postgres"),
			Password:   getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:     getEnvOrDefault("DB_NAME", "health_tracker"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/health_tracker.db"),
		},
		Session: SessionConfig{
			Backend:       strings.ToLower(getEnvOrDefault("SESSION_BACKEND", SessionMemory)),
			RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
			RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
			SentryDSN:  os.Getenv("SENTRY_DSN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem in the configuration at once
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.BotWorkers < 1 {
		errs = append(errs, fmt.Errorf("BOT_WORKERS must be positive, got %d", c.BotWorkers))
	}
	if c.Lookup.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("LOOKUP_TIMEOUT must be positive, got %s", c.Lookup.Timeout))
	}

	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for sqlite"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of postgres, sqlite, memory, got %q", c.DB.Driver))
	}

	switch c.Session.Backend {
	case SessionMemory, SessionRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", c.Session.Backend))
	}

	switch c.Logger.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Logger.Format))
	}

	return errors.Join(errs...)
}

// LoggerConfig converts the logging section for logger.InitWithConfig
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Logger.Level,
		OutputPath: c.Logger.OutputPath,
		Format:     c.Logger.Format,
		SentryDSN:  c.Logger.SentryDSN,
	}
}

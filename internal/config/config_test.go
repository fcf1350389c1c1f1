package config

import (
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	for _, key := range []string{"DB_DRIVER", "SESSION_BACKEND", "BOT_WORKERS", "LOOKUP_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Errorf("DB.Driver = %q, want postgres", cfg.DB.Driver)
	}
	if cfg.Session.Backend != SessionMemory {
		t.Errorf("Session.Backend = %q, want memory", cfg.Session.Backend)
	}
	if cfg.BotWorkers != 8 {
		t.Errorf("BotWorkers = %d, want 8", cfg.BotWorkers)
	}
	if cfg.Lookup.Timeout != 5*time.Second {
		t.Errorf("Lookup.Timeout = %v, want 5s", cfg.Lookup.Timeout)
	}
	if cfg.Logger.Level != logger.LevelInfo {
		t.Errorf("Logger.Level = %v, want info", cfg.Logger.Level)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("BOT_WORKERS", "3")
	t.Setenv("LOOKUP_TIMEOUT", "1500ms")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "/tmp/x.db" {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.Session.Backend != SessionRedis || cfg.BotWorkers != 3 {
		t.Errorf("Session = %+v, workers = %d", cfg.Session, cfg.BotWorkers)
	}
	if cfg.Lookup.Timeout != 1500*time.Millisecond {
		t.Errorf("Lookup.Timeout = %v", cfg.Lookup.Timeout)
	}
	if cfg.Logger.Level != logger.LevelWarn || cfg.Logger.Format != "text" {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	tests := map[string]string{
		"BOT_WORKERS":    "many",
		"LOOKUP_TIMEOUT": "5 seconds",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
			t.Setenv(key, value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("Load() error = %v, want it to mention %s", err, key)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := &Config{
		BotWorkers: 0,
		Lookup:     LookupConfig{Timeout: time.Second},
		DB:         DBConfig{Driver: "mysql"},
		Session:    SessionConfig{Backend: "etcd"},
		Logger:     LoggerConfig{Format: "xml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want errors")
	}
	for _, fragment := range []string{"TELEGRAM_BOT_TOKEN", "BOT_WORKERS", "DB_DRIVER", "SESSION_BACKEND", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q does not mention %s", err, fragment)
		}
	}
}

func TestValidateMemoryDriver(t *testing.T) {
	cfg := &Config{
		TelegramToken: "t",
		BotWorkers:    1,
		Lookup:        LookupConfig{Timeout: time.Second},
		DB:            DBConfig{Driver: DriverMemory},
		Session:       SessionConfig{Backend: SessionMemory},
		Logger:        LoggerConfig{Format: "json"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

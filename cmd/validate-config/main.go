package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/health-tracker/internal/config"
)

func main() {
	fmt.Println("🔍 Проверка конфигурации...")

	// Загружаем .env файл если есть
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env файл не найден: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Ошибка валидации конфигурации:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Конфигурация валидна!")
	fmt.Printf("📋 Детали конфигурации:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Bot Workers: %d\n", cfg.BotWorkers)
	fmt.Printf("  - OpenWeather API Key: %s\n", maskToken(cfg.Lookup.OpenWeatherAPIKey))
	fmt.Printf("  - Food Lookup URL: %s\n", orNone(cfg.Lookup.FoodLookupURL))
	fmt.Printf("  - Gemini API Key: %s (%s)\n", maskToken(cfg.Lookup.GeminiAPIKey), cfg.Lookup.GeminiModel)
	fmt.Printf("  - OpenAI API Key: %s (%s)\n", maskToken(cfg.Lookup.OpenAIAPIKey), cfg.Lookup.OpenAIModel)
	fmt.Printf("  - Lookup Timeout: %s\n", cfg.Lookup.Timeout)
	fmt.Printf("  - DB Driver: %s\n", cfg.DB.Driver)
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	case config.DriverSQLite:
		fmt.Printf("  - SQLite Path: %s\n", cfg.DB.SQLitePath)
	}
	fmt.Printf("  - Session Backend: %s\n", cfg.Session.Backend)
	if cfg.Session.Backend == config.SessionRedis {
		fmt.Printf("  - Redis: %s:%s\n", cfg.Session.RedisHost, cfg.Session.RedisPort)
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
	fmt.Printf("  - Sentry DSN: %s\n", maskToken(cfg.Logger.SentryDSN))
}

func maskToken(token string) string {
	if token == "" {
		return "<не установлен>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "<не установлен>"
	}
	return s
}

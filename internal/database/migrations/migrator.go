package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Dialect names understood by goose
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// setupGoose configures goose with the dialect and the embedded migrations
func setupGoose(dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	dir, err := fs.Sub(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}

	goose.SetBaseFS(dir)
	goose.SetLogger(gooseLogger{})
	return nil
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB, dialect string) error {
	if err := setupGoose(dialect); err != nil {
		return err
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed")
	return nil
}

// MigrateDown rolls back the latest migration
func MigrateDown(db *sql.DB, dialect string) error {
	if err := setupGoose(dialect); err != nil {
		return err
	}

	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the application logger
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logger.Fatal(fmt.Sprintf(format, v...))
}

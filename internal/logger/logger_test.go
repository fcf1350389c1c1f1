package logger

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestInitWithConfigWritesFileWithContextFields(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() {
		globalLogger = prev
		slog.SetDefault(prev)
	})

	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	if err := InitWithConfig(Config{Level: LevelInfo, OutputPath: path, Format: "json"}); err != nil {
		t.Fatalf("InitWithConfig: %v", err)
	}

	ctx := NewContext(context.Background(), "correlation_id", "abc")
	ctx = NewContext(ctx, "update_id", 7)
	WithContext(ctx).Info("Update handled", "user_id", 42)
	Debug("hidden below info")

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		records = append(records, r)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1: %v", len(records), records)
	}
	r := records[0]
	if r["msg"] != "Update handled" || r["correlation_id"] != "abc" || r["update_id"] != float64(7) || r["user_id"] != float64(42) {
		t.Errorf("record = %v", r)
	}
}

func TestWithContextFallsBackToGlobal(t *testing.T) {
	if WithContext(context.Background()) != GetLogger() {
		t.Error("context without fields must use the global logger")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := map[LogLevel]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", level, got, want)
		}
	}
}

package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestAppErrorIs(t *testing.T) {
	err := fmt.Errorf("logging water: %w", NewProfileNotFoundError(7))

	if !errors.Is(err, ErrProfileNotFound) {
		t.Error("wrapped profile error must match ErrProfileNotFound")
	}
	if errors.Is(err, ErrSessionNotFound) {
		t.Error("same type with another code must not match")
	}
	if got := TypeOf(err); got != ErrorTypeNotFound {
		t.Errorf("TypeOf = %s, want not_found", got)
	}
	if got := TypeOf(errors.New("boom")); got != ErrorTypeInternal {
		t.Errorf("TypeOf(foreign) = %s, want internal", got)
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Context["user_id"] != int64(7) {
		t.Errorf("context = %v", appErr)
	}
	if !strings.Contains(appErr.Source, "errors_test.go") {
		t.Errorf("Source = %q, want the caller", appErr.Source)
	}
}

func TestAppErrorUnwrapsInternal(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewDatabaseError(cause)

	if !errors.Is(err, cause) {
		t.Error("database error must unwrap to its cause")
	}
	if !errors.Is(err, ErrDatabaseError) {
		t.Error("database error must match ErrDatabaseError")
	}
	if !errors.Is(NewTimeoutError("transaction"), ErrTimeout) {
		t.Error("timeout error must match ErrTimeout")
	}
}

func TestHandlerLevels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"validation", NewValidationError("bad weight").WithContext("step", "weight"), "WARN"},
		{"not found", NewProfileNotFoundError(1), "WARN"},
		{"external", NewExternalAPIError(errors.New("503"), "openweather"), "WARN"},
		{"database", NewDatabaseError(errors.New("conn reset")), "ERROR"},
		{"foreign", errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(slog.New(slog.NewJSONHandler(&buf, nil)))
			h.Handle(context.Background(), tt.err)

			var record map[string]any
			if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
				t.Fatalf("decode log record %q: %v", buf.String(), err)
			}
			if record["level"] != tt.level {
				t.Errorf("level = %v, want %s", record["level"], tt.level)
			}
		})
	}
}

func TestHandlerIgnoresNil(t *testing.T) {
	var buf bytes.Buffer
	NewHandler(slog.New(slog.NewJSONHandler(&buf, nil))).Handle(context.Background(), nil)
	if buf.Len() != 0 {
		t.Errorf("nil error logged: %s", buf.String())
	}
}

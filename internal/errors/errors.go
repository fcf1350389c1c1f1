package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeTimeout    ErrorType = "timeout"
)

// Error codes shared between services and the bot layer.
const (
	CodeValidation      = "VALIDATION"
	CodeProfileNotFound = "PROFILE_NOT_FOUND"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeDatabase        = "DB_ERROR"
	CodeExternalAPI     = "EXTERNAL_API"
	CodeTimeout         = "TIMEOUT"
	CodeInternal        = "INTERNAL"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return newAt(2, errorType, code, message, nil)
}

func newAt(skip int, errorType ErrorType, code, message string, internal error) *AppError {
	_, file, line, _ := runtime.Caller(skip)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: internal,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.handleGenericError(ctx, err)
	}
}

// handleAppError handles AppError instances
func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypeNotFound:
		h.logger.WarnContext(ctx, "Not found", err.LogFields()...)
	case ErrorTypeExternal:
		h.logger.WarnContext(ctx, "External service degraded", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeInternal, ErrorTypeTimeout:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// handleGenericError handles generic errors
func (h *Handler) handleGenericError(ctx context.Context, err error) {
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

// Predefined errors, used as errors.Is targets only.
var (
	ErrInvalidInput    = New(ErrorTypeValidation, CodeValidation, "Invalid input provided")
	ErrProfileNotFound = New(ErrorTypeNotFound, CodeProfileNotFound, "Profile not found")
	ErrSessionNotFound = New(ErrorTypeNotFound, CodeSessionNotFound, "Onboarding session not found")
	ErrDatabaseError   = New(ErrorTypeDatabase, CodeDatabase, "Database operation failed")
	ErrTimeout         = New(ErrorTypeTimeout, CodeTimeout, "Operation timed out")
)

// Convenience functions for common errors
func NewValidationError(message string) *AppError {
	return newAt(2, ErrorTypeValidation, CodeValidation, message, nil)
}

func NewProfileNotFoundError(userID int64) *AppError {
	return newAt(2, ErrorTypeNotFound, CodeProfileNotFound, "Profile not found", nil).
		WithContext("user_id", userID)
}

func NewSessionNotFoundError(userID int64) *AppError {
	return newAt(2, ErrorTypeNotFound, CodeSessionNotFound, "Onboarding session not found", nil).
		WithContext("user_id", userID)
}

func NewDatabaseError(err error) *AppError {
	return newAt(2, ErrorTypeDatabase, CodeDatabase, "Database operation failed", err)
}

func NewExternalAPIError(err error, api string) *AppError {
	return newAt(2, ErrorTypeExternal, CodeExternalAPI, fmt.Sprintf("%s API error", api), err).
		WithContext("api", api)
}

func NewTimeoutError(operation string) *AppError {
	return newAt(2, ErrorTypeTimeout, CodeTimeout, fmt.Sprintf("%s operation timed out", operation), nil).
		WithContext("operation", operation)
}

func NewInternalError(err error) *AppError {
	return newAt(2, ErrorTypeInternal, CodeInternal, "Internal server error", err)
}

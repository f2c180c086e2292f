package errx

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "Внутренняя ошибка сервера"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage is used when a Redis key does not exist.
	RedisNotFoundMessage = "redis key not found"
	// SQLErrorMessage describes content store failures.
	SQLErrorMessage = "content store query failed"
	// UnavailableMessage is shown to the user when a collaborator fails or times out.
	UnavailableMessage = "Извините, сервис временно недоступен. Произошла ошибка при выполнении запроса, попробуйте позже."
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	// RetryAfter is set for rate limit rejections.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Validation reports bad, missing or oversized input.
func Validation(format string, args ...any) *AppError {
	return New(nil, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// RateLimited reports that the caller exhausted its window.
func RateLimited(limit int, retryAfter time.Duration) *AppError {
	e := New(nil, http.StatusTooManyRequests,
		fmt.Sprintf("Слишком много запросов. Лимит: %d запросов в минуту. Попробуйте позже.", limit))
	e.RetryAfter = retryAfter
	return e
}

// Internal wraps an unexpected failure. The message never includes err.
func Internal(err error) *AppError {
	return New(err, http.StatusInternalServerError, SystemErrorMessage)
}

// Unavailable marks a collaborator failure. It is converted to an apology
// before reaching the caller.
func Unavailable(err error) *AppError {
	return New(err, http.StatusServiceUnavailable, UnavailableMessage)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message carried by err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return SystemErrorMessage
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	if e.Err != nil && errors.As(e.Err, target) {
		return true
	}
	return false
}

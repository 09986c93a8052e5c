// Package errors defines the typed errors Zyra returns across layers and the
// HTTP rendering of them.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType classifies an AppError. It is sent to clients as the "type" field.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT"

	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeDatabase ErrorType = "DATABASE"
	ErrorTypeUpstream ErrorType = "UPSTREAM"
)

type kind struct {
	status   int
	fallback string
}

var kinds = map[ErrorType]kind{
	ErrorTypeValidation:   {http.StatusBadRequest, "Invalid request"},
	ErrorTypeNotFound:     {http.StatusNotFound, "Not found"},
	ErrorTypeConflict:     {http.StatusConflict, "Already exists"},
	ErrorTypeUnauthorized: {http.StatusUnauthorized, "Unauthorized"},
	ErrorTypeForbidden:    {http.StatusForbidden, "Forbidden"},
	ErrorTypeRateLimit:    {http.StatusTooManyRequests, "Rate limit exceeded"},
	ErrorTypeInternal:     {http.StatusInternalServerError, "An internal error occurred"},
	ErrorTypeDatabase:     {http.StatusInternalServerError, "Database error"},
	ErrorTypeUpstream:     {http.StatusInternalServerError, "Upstream service error"},
}

// AppError carries a classification, a client-safe message and the HTTP
// status it maps to. Cause and StackTrace never leave the server.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Type) + ": " + e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCode sets the machine-readable code clients can branch on.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// New builds an AppError of type t. An empty message is replaced by the
// type's default.
func New(t ErrorType, message string) *AppError {
	k, ok := kinds[t]
	if !ok {
		k = kinds[ErrorTypeInternal]
	}
	if message == "" {
		message = k.fallback
	}
	return &AppError{
		Type:       t,
		Message:    message,
		HTTPStatus: k.status,
		StackTrace: callers(3),
	}
}

func callers(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for frame, more := frames.Next(); ; frame, more = frames.Next() {
		fmt.Fprintf(&sb, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			return sb.String()
		}
	}
}

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

// NewNotFoundError reports a missing resource as "<resource> not found".
func NewNotFoundError(resource string) *AppError {
	return New(ErrorTypeNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return New(ErrorTypeConflict, message)
}

func NewUnauthorizedError(message string) *AppError {
	return New(ErrorTypeUnauthorized, message)
}

// NewForbiddenError is returned when a record exists but belongs to another user.
func NewForbiddenError(message string) *AppError {
	return New(ErrorTypeForbidden, message)
}

func NewInternalError(message string) *AppError {
	return New(ErrorTypeInternal, message)
}

func NewRateLimitError(message string) *AppError {
	return New(ErrorTypeRateLimit, message)
}

// NewDatabaseError wraps a failed storage operation such as "GetCanvas".
func NewDatabaseError(operation string, err error) *AppError {
	return New(ErrorTypeDatabase, fmt.Sprintf("database operation '%s' failed", operation)).WithCause(err)
}

// NewUpstreamError wraps a failed call to a third-party provider such as the
// AI model or the object store.
func NewUpstreamError(service string, err error) *AppError {
	return New(ErrorTypeUpstream, fmt.Sprintf("upstream service '%s' failed", service)).WithCause(err)
}

// GetAppError returns the first AppError in err's chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err's chain holds an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFound(err error) bool     { return IsType(err, ErrorTypeNotFound) }
func IsValidation(err error) bool   { return IsType(err, ErrorTypeValidation) }
func IsUnauthorized(err error) bool { return IsType(err, ErrorTypeUnauthorized) }
func IsForbidden(err error) bool    { return IsType(err, ErrorTypeForbidden) }
func IsConflict(err error) bool     { return IsType(err, ErrorTypeConflict) }
func IsRateLimit(err error) bool    { return IsType(err, ErrorTypeRateLimit) }
func IsUpstream(err error) bool     { return IsType(err, ErrorTypeUpstream) }

// StatusCode returns the HTTP status carried by err, or 500 when err is not
// an AppError.
func StatusCode(err error) int {
	if appErr := GetAppError(err); appErr != nil && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Wrap prefixes err's message with context. Errors that are not yet an
// AppError become internal errors so their text stays server-side.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = message + ": " + appErr.Message
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		check  func(error) bool
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest, IsValidation},
		{"not found", NewNotFoundError("Canvas"), http.StatusNotFound, IsNotFound},
		{"conflict", NewConflictError("exists"), http.StatusConflict, IsConflict},
		{"unauthorized", NewUnauthorizedError(""), http.StatusUnauthorized, IsUnauthorized},
		{"forbidden", NewForbiddenError(""), http.StatusForbidden, IsForbidden},
		{"rate limit", NewRateLimitError(""), http.StatusTooManyRequests, IsRateLimit},
		{"upstream", NewUpstreamError("cloudinary", errors.New("boom")), http.StatusInternalServerError, IsUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler failed: %w", tt.err)

			assert.Equal(t, tt.status, StatusCode(wrapped))
			assert.True(t, tt.check(wrapped))
		})
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("Canvas")

	assert.Equal(t, "Canvas not found", err.Message)
	assert.Equal(t, "NOT_FOUND: Canvas not found", err.Error())
}

func TestNew_FallbackMessageAndCode(t *testing.T) {
	err := NewRateLimitError("").WithCode("chat_busy")

	assert.Equal(t, "Rate limit exceeded", err.Message)
	assert.Equal(t, "chat_busy", err.Code)
	assert.NotEmpty(t, err.StackTrace)

	unknown := New(ErrorType("BOGUS"), "")
	assert.Equal(t, http.StatusInternalServerError, unknown.HTTPStatus)
}

func TestStatusCode_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("app error keeps its type", func(t *testing.T) {
		err := Wrap(NewForbiddenError("not yours"), "load canvas")

		require.True(t, IsForbidden(err))
		assert.Equal(t, "load canvas: not yours", GetAppError(err).Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("disk on fire")
		err := Wrap(cause, "save note")

		assert.True(t, IsType(err, ErrorTypeInternal))
		assert.ErrorIs(t, err, cause)
	})
}

func TestErrorHandler_Handle(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)

	t.Run("app error", func(t *testing.T) {
		// Arrange
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/canvases/c1", nil)

		// Act
		handler.Handle(w, r, NewForbiddenError("Forbidden"))

		// Assert
		assert.Equal(t, http.StatusForbidden, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Error)
		assert.Equal(t, "FORBIDDEN", body.Type)
		assert.Equal(t, "Forbidden", body.Message)
	})

	t.Run("unknown error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		handler.Handle(w, r, errors.New("secret connection string"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "secret")
	})

	t.Run("code and debug stack trace", func(t *testing.T) {
		debug := NewErrorHandler(zap.NewNop(), true)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/pdfs", nil)

		debug.Handle(w, r, NewValidationError("File must be a PDF").WithCode("not_pdf"))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "not_pdf", body.Code)
		assert.Contains(t, body.Details, "stack_trace")
	})

	t.Run("status only", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/login", nil)

		handler.HandleStatus(w, r, http.StatusNotFound, "Google sign-in is not configured")

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "NOT_FOUND", body.Type)
		assert.Equal(t, "Google sign-in is not configured", body.Message)
	})
}

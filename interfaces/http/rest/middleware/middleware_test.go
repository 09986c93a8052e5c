package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

func TestLogger_RecordsRoutePattern(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := chi.NewRouter()
	r.Use(Logger(zap.New(core)))
	r.Get("/canvases/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {})
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for _, path := range []string{"/canvases/c1", "/health", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)

	fields := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/canvases/{id}", fields["route"])
	assert.Equal(t, "/canvases/c1", fields["path"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func newSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	sessions, err := auth.NewSessionManager(auth.SessionConfig{SecretKey: "test-secret", Issuer: "zyra", TTL: time.Hour})
	require.NoError(t, err)
	return sessions
}

func TestAuthenticate(t *testing.T) {
	sessions := newSessions(t)
	errs := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	token, _, err := sessions.Issue("u1", "ada@example.com", "Ada")
	require.NoError(t, err)

	var seen string
	h := Authenticate(sessions, errs, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromContext(r.Context())
		require.NoError(t, err)
		seen = user.UserID
	}))

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"session cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: token}) }, http.StatusOK},
		{"query token", func(r *http.Request) { r.URL.RawQuery = "token=" + token }, http.StatusOK},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/canvases", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u1", seen)
			}
		})
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingLimiter) Reset(context.Context, string) error { return nil }

func TestRateLimit(t *testing.T) {
	errs := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})

	t.Run("throttles per caller", func(t *testing.T) {
		h := RateLimit(auth.NewTokenBucketLimiter(1), errs, zap.NewNop())(ok)
		req := func(ip string) *httptest.ResponseRecorder {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("X-Forwarded-For", ip)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			return rec
		}

		assert.Equal(t, http.StatusOK, req("10.0.0.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, req("10.0.0.2").Code)
	})

	t.Run("limiter failure lets requests through", func(t *testing.T) {
		h := RateLimit(failingLimiter{}, errs, zap.NewNop())(ok)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

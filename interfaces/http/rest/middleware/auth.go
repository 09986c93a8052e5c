package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// SessionCookie holds the session token set at sign-in
const SessionCookie = "auth_token"

// Authenticate resolves the caller from the bearer header, the session cookie
// or the token query parameter. Requests without a valid token get a 401.
func Authenticate(sessions *auth.SessionManager, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("Missing authentication token"))
				return
			}

			claims, err := sessions.Validate(token)
			if err != nil {
				logger.Debug("Invalid token",
					zap.Error(err),
					zap.String("ip", ClientIP(r)),
					zap.String("path", r.URL.Path),
				)
				message := "Invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					message = "Token has expired"
				}
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError(message))
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from multiple sources
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return authHeader
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

// ClientIP extracts the client IP address
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

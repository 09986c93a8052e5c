package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Labib591/zyra/pkg/auth"
	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// RateLimit throttles authenticated callers by user id and anonymous callers
// by client IP. Limiter failures let the request through.
func RateLimit(limiter auth.RateLimiter, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + ClientIP(r)
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = "user:" + user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				errs.Handle(w, r, pkgerrors.NewRateLimitError("Rate limit exceeded. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

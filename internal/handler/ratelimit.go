package handler

import (
	"net/http"

	"github.com/clubsure/platform/internal/auth"
	"github.com/clubsure/platform/internal/domain"
	"github.com/clubsure/platform/internal/guard"
)

// RateLimit returns middleware that limits requests per authenticated
// user. It must run after auth.Authenticate.
func RateLimit(limiter *guard.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				RespondError(w, domain.ErrUnauthorized("no principal in context"))
				return
			}

			if res := limiter.Check(r.Context(), principal.UserID.String()); !res.Allowed {
				RespondJSON(w, http.StatusTooManyRequests, map[string]string{
					"code":    "RATE_LIMITED",
					"message": res.Reason,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

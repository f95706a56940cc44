package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/clubsure/platform/internal/domain"
	"github.com/google/uuid"
)

type contextKey string

const principalKey contextKey = "auth_principal"

// ActivityRecorder receives a ping when an authenticated club owner makes
// a request. Failures are swallowed; activity tracking never blocks a
// request.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, profileID uuid.UUID)
}

// PrincipalFromContext extracts the authenticated principal from request
// context. The zero value means the request was not authenticated.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// Authenticate returns middleware that validates bearer tokens and puts
// the resulting principal on the request context.
func Authenticate(jwtMgr *JWTManager, activity ActivityRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := extractPrincipal(r, jwtMgr)
			if err != nil {
				http.Error(w, `{"code":"UNAUTHORIZED","message":"`+err.Error()+`"}`, http.StatusUnauthorized)
				return
			}

			if activity != nil && principal.Role == domain.RoleClub && principal.ProfileID != nil {
				activity.RecordActivity(r.Context(), *principal.ProfileID)
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that restricts a route to the given roles.
// It must run after Authenticate.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	roleSet := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				http.Error(w, `{"code":"UNAUTHORIZED","message":"no auth context"}`, http.StatusUnauthorized)
				return
			}
			if !roleSet[principal.Role] {
				http.Error(w, `{"code":"FORBIDDEN","message":"insufficient role"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractPrincipal(r *http.Request, jwtMgr *JWTManager) (domain.Principal, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Principal{}, fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return domain.Principal{}, fmt.Errorf("invalid Authorization format")
	}

	claims, err := jwtMgr.ValidateToken(parts[1])
	if err != nil {
		return domain.Principal{}, err
	}
	return claims.Principal()
}

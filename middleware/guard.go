// Package middleware exposes a net/http adapter that enforces bearer-token
// authentication in front of a handler. It translates HTTP semantics into
// engine calls and makes no authorization decisions of its own — everything
// is delegated to [labauth.Engine.VerifyToken].
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/4clab/labauth"
	"github.com/4clab/labauth/jwt"
	"github.com/4clab/labauth/permission"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the verified claims injected by [RequireAuth].
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*jwt.Claims)
	return claims, ok
}

// RequireAuth returns middleware that rejects requests without a valid
// bearer token and injects the verified claims into the request context.
func RequireAuth(engine *labauth.Engine) func(http.Handler) http.Handler {
	return guard(engine, nil)
}

// RequireAdmin additionally requires an admin or superadmin role. Failing
// the role check yields 403, not 401.
func RequireAdmin(engine *labauth.Engine) func(http.Handler) http.Handler {
	return guard(engine, permission.IsAdmin)
}

// RequireSuperAdmin additionally requires the superadmin role.
func RequireSuperAdmin(engine *labauth.Engine) func(http.Handler) http.Handler {
	return guard(engine, permission.IsSuperAdmin)
}

func guard(engine *labauth.Engine, roleOK func(role string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := engine.VerifyToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if roleOK != nil && !roleOK(claims.Role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

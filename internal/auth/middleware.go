package auth

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/auth/session"
	"github.com/craftline/craftline-backend/pkg/httputil"
)

// Middleware resolves the caller identity from the session cookie and
// injects it into the request context. An absent or invalid cookie is
// not an error here; routes that require a caller apply RequireAuth.
func Middleware(mgr *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(mgr.CookieName())
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := mgr.Validate(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.OpenID, claims.Name, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

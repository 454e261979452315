package auth

import (
	"net/http"
	"strings"

	"github.com/premierlux/premierlux-backend/internal/auth/jwt"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/httputil"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Middleware validates the bearer token and installs the caller scope on
// the request context. Handlers behind it may use scope.MustFromContext.
func Middleware(tokens *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.Error(w, errors.Unauthorized("invalid authorization header"))
				return
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := scope.WithScope(r.Context(), claims.Scope())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManagement rejects callers below admin
func RequireManagement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, err := scope.FromContext(r.Context())
		if err != nil || !sc.IsManagement() {
			httputil.Error(w, errors.Forbidden("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwner rejects everyone but the owner
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, err := scope.FromContext(r.Context())
		if err != nil || !sc.IsOwner() {
			httputil.Error(w, errors.Forbidden("owner access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

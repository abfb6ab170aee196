package middlewares

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcmexdev/storefront/pkg/auth"
)

// RequireRole admits requests carrying a valid bearer token with role.
func RequireRole(signer *auth.Signer, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				deny(w, http.StatusUnauthorized, "unauthorized", "bearer token required")
				return
			}
			claims, err := signer.ValidateToken(token)
			if err != nil {
				deny(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			if claims.Role != role {
				slog.WarnContext(r.Context(), "forbidden", "subject", claims.Subject, "role", claims.Role, "path", r.URL.Path)
				deny(w, http.StatusForbidden, "forbidden", "requires role "+role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}

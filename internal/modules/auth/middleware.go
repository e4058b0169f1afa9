package auth

import (
	"net/http"
	"strings"

	"github.com/mkj2903/finalshowmo/internal/modules/user"
)

// RequireAdmin rejects requests without a valid admin bearer token and stores
// the token's claims in the request context.
func RequireAdmin(s Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Authentication required"})
				return
			}
			claims, err := s.ParseToken(strings.TrimSpace(token))
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid or expired token"})
				return
			}
			if claims.Role != user.RoleAdmin {
				respond(w, http.StatusForbidden, map[string]any{"success": false, "message": "Admin access required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

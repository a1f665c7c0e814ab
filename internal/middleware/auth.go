package middleware

import (
	"net/http"
	"strings"

	"infinite-experiment/flightboard/internal/auth"
	"infinite-experiment/flightboard/internal/logging"
)

// AdminAuthMiddleware requires a valid admin bearer token. With an empty
// secret every request passes; config refuses that in production.
func AdminAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseAdminToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("Rejected admin token",
					"request_id", auth.GetRequestID(r.Context()),
					"error", err.Error(),
				)
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetAdminClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

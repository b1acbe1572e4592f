package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/volleyball-tournament/utils"
)

// RequireAdmin rejects requests without a valid admin capability token in
// the "Authorization: Bearer <token>" header.
func RequireAdmin(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "missing admin token")
				return
			}

			adminID, err := utils.ParseAdminToken(secret, strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected admin token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				unauthorized(w, "invalid or expired admin token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdminID(r.Context(), adminID)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

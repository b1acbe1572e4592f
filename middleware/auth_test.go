package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/volleyball-tournament/utils"
)

func TestRequireAdmin(t *testing.T) {
	secret := []byte("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Now()

	valid, _, err := utils.GenerateAdminToken(secret, "admin-1", time.Hour, now)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	expired, _, _ := utils.GenerateAdminToken(secret, "admin-1", time.Hour, now.Add(-2*time.Hour))
	foreign, _, _ := utils.GenerateAdminToken([]byte("other-secret"), "admin-1", time.Hour, now)

	var seenAdmin string
	protected := RequireAdmin(secret, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAdmin, _ = GetAdminIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusNoContent},
		{"lowercase scheme", "bearer " + valid, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenAdmin = ""
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/reset", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusNoContent && seenAdmin != "admin-1" {
				t.Errorf("admin id in context = %q, want admin-1", seenAdmin)
			}
		})
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/volleyball-tournament/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"team not found", services.ErrTeamNotFound, http.StatusNotFound},
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"name conflict", services.ErrTeamNameConflict, http.StatusConflict},
		{"replayed result", services.ErrMatchAlreadyCompleted, http.StatusConflict},
		{"validation", services.ErrSameTeams, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("schedule: %w", services.ErrInvalidMatchTime), http.StatusBadRequest},
		{"status transition", services.ErrInvalidStatusTransition, http.StatusBadRequest},
		{"bad admin code", services.ErrInvalidAdminCode, http.StatusUnauthorized},
		{"export disabled", services.ErrExportNotConfigured, http.StatusServiceUnavailable},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] == "" {
				t.Fatal("missing error message")
			}
			if tt.wantStatus == http.StatusInternalServerError && strings.Contains(body["error"], "connection reset") {
				t.Error("internal error leaked to client")
			}
		})
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	var dst teamRequest
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A","colour":"red"}`))
	if err := readJSON(httptest.NewRecorder(), req, &dst); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://volley.example"})
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"https://volley.example", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := check(req); got != tt.want {
			t.Errorf("origin %q: got %v, want %v", tt.origin, got, tt.want)
		}
	}
}

package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

// setEnv очищает переменные, которые читает Load, и задаёт нужные.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range []string{
		"STORE_DRIVER", "DATABASE_URL", "MONGODB_URI", "MONGODB_DATABASE", "JWT_SECRET_KEY",
		"ADMIN_TOKEN_TTL", "ADMIN_CODE", "SERVER_PORT", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL",
		"NATS_URL", "NATS_SUBJECT", "R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY",
		"R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL", "EXPORT_CRON",
	} {
		t.Setenv(key, "")
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":   "postgres://localhost/volleyball?sslmode=disable",
		"JWT_SECRET_KEY": "secret",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Errorf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.AdminTokenTTL != 12*time.Hour {
		t.Errorf("AdminTokenTTL = %s", cfg.AdminTokenTTL)
	}
	if cfg.DefaultAdminCode != "SECRET123" {
		t.Errorf("DefaultAdminCode = %q", cfg.DefaultAdminCode)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.NATSSubject != "volleyball.events" || cfg.MongoDatabase != "volleyballTournament" {
		t.Errorf("NATSSubject = %q, MongoDatabase = %q", cfg.NATSSubject, cfg.MongoDatabase)
	}
	if cfg.R2Enabled() {
		t.Error("R2 enabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_DRIVER":         "Memory",
		"JWT_SECRET_KEY":       "secret",
		"ADMIN_TOKEN_TTL":      "30m",
		"SERVER_PORT":          "9090",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"LOG_LEVEL":            "warning",
		"R2_ACCOUNT_ID":        "acc",
		"R2_ACCESS_KEY_ID":     "key",
		"R2_SECRET_ACCESS_KEY": "secret",
		"R2_BUCKET_NAME":       "bucket",
		"R2_PUBLIC_BASE_URL":   "https://cdn.example",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != StoreDriverMemory {
		t.Errorf("StoreDriver = %q", cfg.StoreDriver)
	}
	if cfg.AdminTokenTTL != 30*time.Minute || cfg.ServerPort != 9090 {
		t.Errorf("AdminTokenTTL = %s, ServerPort = %d", cfg.AdminTokenTTL, cfg.ServerPort)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	if !cfg.R2Enabled() {
		t.Error("R2 should be enabled")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"postgres without url", map[string]string{"JWT_SECRET_KEY": "s"}},
		{"missing secret", map[string]string{"STORE_DRIVER": "memory"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "redis", "JWT_SECRET_KEY": "s"}},
		{"bad ttl", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "ADMIN_TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "ADMIN_TOKEN_TTL": "-1h"}},
		{"bad port", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "SERVER_PORT": "70000"}},
		{"bad log level", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.vars)
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

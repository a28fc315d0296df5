package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Driver != DriverMongoDB {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Limits.DriverBookingsLimit != 500 || cfg.Limits.ListLimit != 100 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.WebSocket.Path != "/api/ws" {
		t.Errorf("websocket path = %q", cfg.WebSocket.Path)
	}
	if cfg.Redis.Enabled {
		t.Error("cache enabled by default")
	}
	if cfg.Security.JWTAccessTokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %v", cfg.Security.JWTAccessTokenTTL)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverMemory)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "90m")
	t.Setenv("LIST_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Driver != DriverMemory {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.App.Port != 9090 {
		t.Errorf("port = %d", cfg.App.Port)
	}
	if got := cfg.Security.CORSAllowedOrigins; len(got) != 2 || got[1] != "https://b.example.com" {
		t.Errorf("origins = %q", got)
	}
	if cfg.Security.JWTAccessTokenTTL != 90*time.Minute {
		t.Errorf("token ttl = %v", cfg.Security.JWTAccessTokenTTL)
	}
	if cfg.Limits.ListLimit != 100 {
		t.Errorf("unparseable LIST_LIMIT should fall back, got %d", cfg.Limits.ListLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, "STORAGE_DRIVER"},
		{"unknown storage provider", map[string]string{"STORAGE_PROVIDER": "ftp"}, "STORAGE_PROVIDER"},
		{"unknown sms provider", map[string]string{"SMS_ENABLED": "true", "SMS_PROVIDER": "pigeon"}, "SMS_PROVIDER"},
		{"short production secret", map[string]string{"APP_ENV": "production", "JWT_SECRET": "short"}, "32 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

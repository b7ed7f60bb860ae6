package environment

import (
	"strings"
	"testing"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
}

func TestLoad_Defaults(t *testing.T) {
	setMemoryEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.MaxUploadBytes != 2*1024*1024 {
		t.Errorf("expected 2MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", cfg.OpenAI.Model)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setMemoryEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("ALLOWED_ORIGINS", "https://cafemaemi.jp, https://admin.cafemaemi.jp")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://admin.cafemaemi.jp" {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.Admin.CookieSecure {
		t.Error("expected secure cookies")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:         ServerConfig{Port: "8080"},
			Admin:          AdminConfig{Password: "pw", SessionSecret: "0123456789abcdef"},
			StoreDriver:    StoreDriverMemory,
			MaxUploadBytes: 10,
			LogLevel:       "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid memory config", mutate: func(c *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "PORT"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, wantErr: "STORE_DRIVER"},
		{name: "firestore without credentials", mutate: func(c *Config) { c.StoreDriver = StoreDriverFirestore }, wantErr: "FIREBASE_CREDENTIALS_BASE64"},
		{name: "missing admin password", mutate: func(c *Config) { c.Admin.Password = "" }, wantErr: "ADMIN_PASSWORD"},
		{name: "short session secret", mutate: func(c *Config) { c.Admin.SessionSecret = "short" }, wantErr: "SESSION_SECRET"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

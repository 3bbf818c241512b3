// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, overrides and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, "console.yaml", `
api:
  base_url: "https://bot.example.com"
  timeout: "30s"

session:
  token_path: "/tmp/boter-token"
  logout_on_unauthorized: true

ui:
  navigation_delay: "500ms"

logging:
  level: "debug"
  format: "json"

fakeapi:
  addr: "127.0.0.1:9000"
  jwt_secret: "secret"
  token_ttl: "1h"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://bot.example.com" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://bot.example.com")
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, 30*time.Second)
	}
	if cfg.Session.TokenPath != "/tmp/boter-token" {
		t.Errorf("Session.TokenPath = %q", cfg.Session.TokenPath)
	}
	if !cfg.Session.LogoutOnUnauthorized {
		t.Error("Session.LogoutOnUnauthorized = false, want true")
	}
	if cfg.UI.NavigationDelay != 500*time.Millisecond {
		t.Errorf("UI.NavigationDelay = %v, want 500ms", cfg.UI.NavigationDelay)
	}
	// Not in the file, so the default applies.
	if cfg.UI.SetupRedirectDelay != 2*time.Second {
		t.Errorf("UI.SetupRedirectDelay = %v, want 2s", cfg.UI.SetupRedirectDelay)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.FakeAPI.Addr != "127.0.0.1:9000" || cfg.FakeAPI.TokenTTL != time.Hour {
		t.Errorf("FakeAPI = %+v", cfg.FakeAPI)
	}
	if cfg.FakeAPI.Database != "boter-fake.db" {
		t.Errorf("FakeAPI.Database = %q, want default", cfg.FakeAPI.Database)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "console.toml", `
[api]
base_url = "http://10.0.0.5:8000"
timeout = "5s"

[logging]
level = "warn"
format = "text"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_BOTER_HOST", "bot.internal")
	t.Setenv("TEST_BOTER_SECRET", "expanded-secret")

	path := writeConfig(t, "console.yaml", `
api:
  base_url: "http://${TEST_BOTER_HOST}:8000"
fakeapi:
  jwt_secret: "${TEST_BOTER_SECRET}"
  addr: "${TEST_BOTER_UNSET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "http://bot.internal:8000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.FakeAPI.JWTSecret != "expanded-secret" {
		t.Errorf("FakeAPI.JWTSecret = %q", cfg.FakeAPI.JWTSecret)
	}
	if cfg.FakeAPI.Addr != "" {
		t.Errorf("FakeAPI.Addr = %q, want empty", cfg.FakeAPI.Addr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOTER_API_URL", "https://override.example.com")
	t.Setenv("BOTER_LOG_LEVEL", "error")
	t.Setenv("BOTER_LOGOUT_ON_UNAUTHORIZED", "true")
	t.Setenv("BOTER_API_TIMEOUT", "2s")

	path := writeConfig(t, "console.yaml", `
api:
  base_url: "http://from-file:8000"
logging:
  level: "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://override.example.com" {
		t.Errorf("API.BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env override", cfg.Logging.Level)
	}
	if !cfg.Session.LogoutOnUnauthorized {
		t.Error("Session.LogoutOnUnauthorized not overridden")
	}
	if cfg.API.Timeout != 2*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, "console.yaml", `
ui:
  navigation_delay: "soon"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "ui.navigation_delay") {
		t.Errorf("error %q should name the field", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "console.yaml", "api: [unclosed")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/console.yaml"); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url is required"},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, "http(s) URL"},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }, "http(s) URL"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFakeAPI(t *testing.T) {
	cfg := Default()
	if err := parseDurations(cfg); err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateFakeAPI(); err != nil {
		t.Fatalf("ValidateFakeAPI() with generated secret: %v", err)
	}
	cfg.FakeAPI.JWTSecret = "short"
	if err := cfg.ValidateFakeAPI(); err == nil || !strings.Contains(err.Error(), "jwt_secret") {
		t.Fatalf("ValidateFakeAPI() error = %v, want jwt_secret", err)
	}
	cfg.FakeAPI.JWTSecret = strings.Repeat("s", 32)
	if err := cfg.ValidateFakeAPI(); err != nil {
		t.Fatalf("ValidateFakeAPI() error = %v", err)
	}
	cfg.FakeAPI.TokenTTL = 0
	if err := cfg.ValidateFakeAPI(); err == nil {
		t.Fatal("ValidateFakeAPI() accepted zero token_ttl")
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv(EnvConfigPath, "")

	if p, explicit := Resolve("/flag.yaml"); p != "/flag.yaml" || !explicit {
		t.Errorf("Resolve(flag) = %q, %v", p, explicit)
	}
	if p, explicit := Resolve(""); p != "/xdg/boter/console.yaml" || explicit {
		t.Errorf("Resolve() = %q, %v", p, explicit)
	}

	t.Setenv(EnvConfigPath, "/env.toml")
	if p, explicit := Resolve(""); p != "/env.toml" || !explicit {
		t.Errorf("Resolve(env) = %q, %v", p, explicit)
	}
}

func TestLoadOrDefault_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")

	cfg, path, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.UI.NavigationDelay != time.Second {
		t.Errorf("UI.NavigationDelay = %v, want 1s", cfg.UI.NavigationDelay)
	}
}

func TestLoadOrDefault_MissingExplicitFile(t *testing.T) {
	if _, _, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadOrDefault() expected error for missing explicit file")
	}
}

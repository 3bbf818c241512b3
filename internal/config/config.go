// ABOUTME: Configuration loading and parsing for the boter console and fake API
// ABOUTME: YAML or TOML files with ${VAR} expansion, BOTER_* env overrides and duration parsing

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "BOTER_CONFIG"

// Config is the complete console configuration.
type Config struct {
	API     APIConfig     `yaml:"api" toml:"api"`
	Session SessionConfig `yaml:"session" toml:"session"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	FakeAPI FakeAPIConfig `yaml:"fakeapi" toml:"fakeapi"`
}

// APIConfig locates the management API.
type APIConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url" env:"BOTER_API_URL"`

	// Timeout bounds each request. Zero means no timeout.
	Timeout    time.Duration `yaml:"-" toml:"-"`
	TimeoutRaw string        `yaml:"timeout" toml:"timeout" env:"BOTER_API_TIMEOUT"`
}

// SessionConfig controls where the token lives and how authorization
// failures are treated.
type SessionConfig struct {
	// TokenPath overrides $XDG_CONFIG_HOME/boter/token.
	TokenPath string `yaml:"token_path" toml:"token_path" env:"BOTER_TOKEN_FILE"`
	// LogoutOnUnauthorized clears the session when the API answers 401 or 403.
	LogoutOnUnauthorized bool `yaml:"logout_on_unauthorized" toml:"logout_on_unauthorized" env:"BOTER_LOGOUT_ON_UNAUTHORIZED"`
}

// UIConfig holds the console's notification delays.
type UIConfig struct {
	NavigationDelay    time.Duration `yaml:"-" toml:"-"`
	SetupRedirectDelay time.Duration `yaml:"-" toml:"-"`

	NavigationDelayRaw    string `yaml:"navigation_delay" toml:"navigation_delay" env:"BOTER_NAVIGATION_DELAY"`
	SetupRedirectDelayRaw string `yaml:"setup_redirect_delay" toml:"setup_redirect_delay" env:"BOTER_SETUP_REDIRECT_DELAY"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" env:"BOTER_LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" env:"BOTER_LOG_FORMAT"`
}

// FakeAPIConfig configures the local stand-in server.
type FakeAPIConfig struct {
	Addr      string `yaml:"addr" toml:"addr" env:"BOTER_FAKEAPI_ADDR"`
	Database  string `yaml:"database" toml:"database" env:"BOTER_FAKEAPI_DB"`
	JWTSecret string `yaml:"jwt_secret" toml:"jwt_secret" env:"BOTER_JWT_SECRET"`

	TokenTTL    time.Duration `yaml:"-" toml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl" toml:"token_ttl" env:"BOTER_TOKEN_TTL"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{BaseURL: "http://localhost:8000"},
		UI: UIConfig{
			NavigationDelayRaw:    "1s",
			SetupRedirectDelayRaw: "2s",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		FakeAPI: FakeAPIConfig{
			Addr:        "127.0.0.1:8000",
			Database:    "boter-fake.db",
			TokenTTLRaw: "24h",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/boter/console.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "boter", "console.yaml")
}

// Resolve picks the config file path: the explicit path if given, then
// BOTER_CONFIG, then DefaultPath. explicit reports whether the path was asked
// for, in which case a missing file is an error.
func Resolve(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, true
	}
	return DefaultPath(), false
}

// LoadOrDefault resolves the config path and loads it. A missing default
// file yields Default with env overrides applied. It returns the path used,
// or "" when no file was read.
func LoadOrDefault(flagPath string) (*Config, string, error) {
	path, explicit := Resolve(flagPath)
	if path != "" {
		cfg, err := Load(path)
		if err == nil {
			return cfg, path, nil
		}
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, "", err
		}
	}

	cfg := Default()
	if err := finish(cfg); err != nil {
		return nil, "", err
	}
	return cfg, "", nil
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Values not in the file keep their defaults. Environment variables in the
// format ${VAR_NAME} are expanded, then BOTER_* variables override.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}
	if err := parseDurations(cfg); err != nil {
		return fmt.Errorf("parsing durations: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate checks the console settings.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.UI.NavigationDelay < 0 || c.UI.SetupRedirectDelay < 0 {
		return fmt.Errorf("ui delays must not be negative")
	}

	if !slices.Contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level must be one of %s, got %q", strings.Join(validLevels, ", "), c.Logging.Level)
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("logging.format must be one of %s, got %q", strings.Join(validFormats, ", "), c.Logging.Format)
	}
	return nil
}

// minSecretLength matches the token signer's minimum key size.
const minSecretLength = 32

// ValidateFakeAPI checks the settings the fake API server needs. An empty
// jwt_secret is allowed; the server then generates one per run.
func (c *Config) ValidateFakeAPI() error {
	if c.FakeAPI.Addr == "" {
		return fmt.Errorf("fakeapi.addr is required")
	}
	if c.FakeAPI.Database == "" {
		return fmt.Errorf("fakeapi.database is required")
	}
	if n := len(c.FakeAPI.JWTSecret); n > 0 && n < minSecretLength {
		return fmt.Errorf("fakeapi.jwt_secret must be at least %d bytes, got %d", minSecretLength, n)
	}
	if c.FakeAPI.TokenTTL <= 0 {
		return fmt.Errorf("fakeapi.token_ttl must be positive")
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"api.timeout", cfg.API.TimeoutRaw, &cfg.API.Timeout},
		{"ui.navigation_delay", cfg.UI.NavigationDelayRaw, &cfg.UI.NavigationDelay},
		{"ui.setup_redirect_delay", cfg.UI.SetupRedirectDelayRaw, &cfg.UI.SetupRedirectDelay},
		{"fakeapi.token_ttl", cfg.FakeAPI.TokenTTLRaw, &cfg.FakeAPI.TokenTTL},
	}
	for _, f := range fields {
		if f.raw == "" {
			*f.dst = 0
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}

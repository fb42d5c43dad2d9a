package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the opsconsole configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Platform PlatformConfig `yaml:"platform"`
	Auth     AuthConfig     `yaml:"auth"`
	Scope    ScopeConfig    `yaml:"scope"`
	Routes   RoutesConfig   `yaml:"routes"`
	Storage  StorageConfig  `yaml:"storage"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"` // HS256 key shared with the platform
	Issuer    string `yaml:"issuer"`     // optional; checked when set
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Valkey/Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// PlatformConfig holds platform API settings.
type PlatformConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// ScopeConfig holds scope resolution settings.
type ScopeConfig struct {
	PendingAfterMs       int `yaml:"pending_after_ms"`        // non-waiting evaluations answer "loading" after this
	WorkspaceCacheTTLSec int `yaml:"workspace_cache_ttl_sec"` // workspace list cache lifetime
}

// RoutesConfig holds fixed console destinations.
type RoutesConfig struct {
	OnboardingPath string `yaml:"onboarding_path"`
	DashboardPath  string `yaml:"dashboard_path"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// UIConfig holds app shell settings.
type UIConfig struct {
	Dir string `yaml:"dir"` // built SPA; empty serves a JSON placeholder
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Platform.TimeoutSec <= 0 {
		c.Platform.TimeoutSec = 10
	}
	if c.Scope.PendingAfterMs <= 0 {
		c.Scope.PendingAfterMs = 300
	}
	if c.Scope.WorkspaceCacheTTLSec <= 0 {
		c.Scope.WorkspaceCacheTTLSec = 60
	}
	if c.Routes.OnboardingPath == "" {
		c.Routes.OnboardingPath = "/onboarding"
	}
	if c.Routes.DashboardPath == "" {
		c.Routes.DashboardPath = "/dashboard"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "opsconsole:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("platform.base_url is required")
	}
	if u, err := url.Parse(c.Platform.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("platform.base_url must be an absolute URL, got %q", c.Platform.BaseURL)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	for name, p := range map[string]string{
		"routes.onboarding_path": c.Routes.OnboardingPath,
		"routes.dashboard_path":  c.Routes.DashboardPath,
	} {
		if !strings.HasPrefix(p, "/") || p == "/" {
			return fmt.Errorf("%s must be an absolute path other than \"/\", got %q", name, p)
		}
	}
	return nil
}

// PendingAfter returns scope.pending_after_ms as a duration.
func (c *Config) PendingAfter() time.Duration {
	return time.Duration(c.Scope.PendingAfterMs) * time.Millisecond
}

// WorkspaceCacheTTL returns scope.workspace_cache_ttl_sec as a duration.
func (c *Config) WorkspaceCacheTTL() time.Duration {
	return time.Duration(c.Scope.WorkspaceCacheTTLSec) * time.Second
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/franfreezy/abdata/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Backend API configuration
	Backend BackendConfig `yaml:"backend"`

	// Federated sign-in configuration
	OIDC OIDCConfig `yaml:"oidc"`

	// Session storage configuration
	Session SessionConfig `yaml:"session"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	PublicBaseURL   string        `yaml:"public_base_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BackendConfig holds AB DATA backend API settings
type BackendConfig struct {
	BaseURL           string        `yaml:"base_url"`
	StatsPollInterval time.Duration `yaml:"stats_poll_interval"`
}

// OIDCConfig holds federated identity provider settings. Federated sign-in
// is enabled only when IssuerURL is set.
type OIDCConfig struct {
	IssuerURL    string `yaml:"issuer_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether federated sign-in is configured
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// SessionConfig holds browser session storage settings. With an empty
// RedisURL sessions are kept in process memory.
type SessionConfig struct {
	RedisURL      string        `yaml:"redis_url"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel `yaml:"-"`
	LogLevelName   string                 `yaml:"log_level"`
	MetricsEnabled bool                   `yaml:"metrics_enabled"`
}

// LoadConfig loads configuration from environment variables, optionally
// layered on top of a YAML file named by ABDATA_CONFIG_FILE. Environment
// variables win over file values.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := getEnv("ABDATA_CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()

	if cfg.Observability.LogLevelName != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(cfg.Observability.LogLevelName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			PublicBaseURL:   "http://localhost:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:           "http://localhost:8000",
			StatsPollInterval: 30 * time.Second,
		},
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Observability: ObservabilityConfig{
			LogLevelName:   "info",
			MetricsEnabled: true,
		},
	}
}

// loadFile overlays values from a YAML config file
func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays values from environment variables
func (c *Config) loadEnv() {
	c.Server.Host = getEnv("ABDATA_HOST", c.Server.Host)
	c.Server.Port = getEnv("ABDATA_PORT", c.Server.Port)
	c.Server.PublicBaseURL = getEnv("ABDATA_PUBLIC_BASE_URL", c.Server.PublicBaseURL)
	c.Server.ReadTimeout = getEnvDuration("ABDATA_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("ABDATA_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvDuration("ABDATA_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("ABDATA_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Backend.BaseURL = getEnv("ABDATA_BACKEND_URL", c.Backend.BaseURL)
	c.Backend.StatsPollInterval = getEnvDuration("ABDATA_STATS_POLL_INTERVAL", c.Backend.StatsPollInterval)

	c.OIDC.IssuerURL = getEnv("ABDATA_OIDC_ISSUER_URL", c.OIDC.IssuerURL)
	c.OIDC.ClientID = getEnv("ABDATA_OIDC_CLIENT_ID", c.OIDC.ClientID)
	c.OIDC.ClientSecret = getEnv("ABDATA_OIDC_CLIENT_SECRET", c.OIDC.ClientSecret)
	c.OIDC.RedirectURL = getEnv("ABDATA_OIDC_REDIRECT_URL", c.OIDC.RedirectURL)

	c.Session.RedisURL = getEnv("ABDATA_REDIS_URL", c.Session.RedisURL)
	c.Session.RedisPassword = getEnv("ABDATA_REDIS_PASSWORD", c.Session.RedisPassword)
	c.Session.RedisDB = getEnvInt("ABDATA_REDIS_DB", c.Session.RedisDB)
	c.Session.TTL = getEnvDuration("ABDATA_SESSION_TTL", c.Session.TTL)

	c.Observability.LogLevelName = getEnv("ABDATA_LOG_LEVEL", c.Observability.LogLevelName)
	c.Observability.MetricsEnabled = getEnvBool("ABDATA_METRICS_ENABLED", c.Observability.MetricsEnabled)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend base URL must be http or https: %s", c.Backend.BaseURL)
	}
	if c.Backend.StatsPollInterval <= 0 {
		return fmt.Errorf("stats poll interval must be positive")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	if c.OIDC.Enabled() {
		if c.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC client ID is required when an issuer is configured")
		}
		if c.OIDC.RedirectURL == "" {
			return fmt.Errorf("OIDC redirect URL is required when an issuer is configured")
		}
	}

	return nil
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

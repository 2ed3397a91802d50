package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/franfreezy/abdata/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		want         time.Duration
	}{
		{name: "parses duration", envValue: "45s", defaultValue: time.Minute, want: 45 * time.Second},
		{name: "default when unset", envValue: "", defaultValue: time.Minute, want: time.Minute},
		{name: "default on garbage", envValue: "soon", defaultValue: time.Minute, want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv("TEST_DURATION", tt.envValue)
				defer os.Unsetenv("TEST_DURATION")
			}

			got := getEnvDuration("TEST_DURATION", tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestLoadConfigDefaults verifies the zero-environment defaults
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %v, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Backend.BaseURL = %v, want http://localhost:8000", cfg.Backend.BaseURL)
	}
	if cfg.Backend.StatsPollInterval != 30*time.Second {
		t.Errorf("StatsPollInterval = %v, want 30s", cfg.Backend.StatsPollInterval)
	}
	if cfg.OIDC.Enabled() {
		t.Error("OIDC should be disabled by default")
	}
	if cfg.Observability.LogLevel != observability.InfoLevel {
		t.Errorf("LogLevel = %v, want info", cfg.Observability.LogLevel)
	}
}

// TestLoadConfigEnvOverride verifies environment variables win
func TestLoadConfigEnvOverride(t *testing.T) {
	os.Setenv("ABDATA_BACKEND_URL", "https://api.abdata.example")
	os.Setenv("ABDATA_LOG_LEVEL", "debug")
	defer os.Unsetenv("ABDATA_BACKEND_URL")
	defer os.Unsetenv("ABDATA_LOG_LEVEL")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Backend.BaseURL != "https://api.abdata.example" {
		t.Errorf("Backend.BaseURL = %v", cfg.Backend.BaseURL)
	}
	if cfg.Observability.LogLevel != observability.DebugLevel {
		t.Errorf("LogLevel = %v, want debug", cfg.Observability.LogLevel)
	}
}

// TestLoadConfigYAMLFile verifies file values apply under env values
func TestLoadConfigYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "backend:\n  base_url: https://file.abdata.example\nserver:\n  port: \"9001\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	os.Setenv("ABDATA_CONFIG_FILE", path)
	os.Setenv("ABDATA_PORT", "9002")
	defer os.Unsetenv("ABDATA_CONFIG_FILE")
	defer os.Unsetenv("ABDATA_PORT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Backend.BaseURL != "https://file.abdata.example" {
		t.Errorf("Backend.BaseURL = %v, want file value", cfg.Backend.BaseURL)
	}
	if cfg.Server.Port != "9002" {
		t.Errorf("Server.Port = %v, env must win over file", cfg.Server.Port)
	}
}

// TestValidate tests configuration validation rules
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(c *Config) {}, wantErr: false},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "missing backend URL",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "backend URL without scheme",
			mutate:  func(c *Config) { c.Backend.BaseURL = "localhost:8000" },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Backend.StatsPollInterval = 0 },
			wantErr: true,
		},
		{
			name:    "issuer without client ID",
			mutate:  func(c *Config) { c.OIDC.IssuerURL = "https://idp.example.com" },
			wantErr: true,
		},
		{
			name: "complete OIDC config",
			mutate: func(c *Config) {
				c.OIDC.IssuerURL = "https://idp.example.com"
				c.OIDC.ClientID = "abdata-web"
				c.OIDC.RedirectURL = "http://localhost:8080/callback"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Credential store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	APIBaseURL        string
	APITimeout        time.Duration
	StateDir          string
	DBPath            string
	CredentialsPath   string
	CredentialBackend string
	LogPath           string
	LogLevel          slog.Level
	ProfileTTL        time.Duration
	HealthInterval    time.Duration
}

// envOverrides mirrors the settings that can come from the environment.
// Unset variables leave the defaults alone.
type envOverrides struct {
	APIBaseURL        string        `env:"YAKHTEH_API_BASE_URL"`
	APITimeout        time.Duration `env:"YAKHTEH_API_TIMEOUT"`
	StateDir          string        `env:"YAKHTEH_STATE_DIR"`
	CredentialBackend string        `env:"YAKHTEH_CREDENTIAL_BACKEND"`
	LogLevel          string        `env:"YAKHTEH_LOG_LEVEL"`
	ProfileTTL        time.Duration `env:"YAKHTEH_PROFILE_TTL"`
	HealthInterval    time.Duration `env:"YAKHTEH_HEALTH_INTERVAL"`
}

func Default() Config {
	return withStateDir(Config{
		APIBaseURL:        "http://localhost:8001/api/v1",
		APITimeout:        5 * time.Second,
		CredentialBackend: BackendFile,
		LogLevel:          slog.LevelInfo,
		ProfileTTL:        5 * time.Minute,
		HealthInterval:    30 * time.Second,
	}, filepath.Join(userConfigDir(), "yakhteh"))
}

// Load returns the defaults with environment overrides applied.
func Load() (Config, error) {
	cfg := Default()

	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if o.StateDir != "" {
		cfg = withStateDir(cfg, o.StateDir)
	}
	if o.APIBaseURL != "" {
		cfg.APIBaseURL = o.APIBaseURL
	}
	if o.APITimeout > 0 {
		cfg.APITimeout = o.APITimeout
	}
	if o.ProfileTTL > 0 {
		cfg.ProfileTTL = o.ProfileTTL
	}
	if o.HealthInterval > 0 {
		cfg.HealthInterval = o.HealthInterval
	}
	if o.CredentialBackend != "" {
		backend := strings.ToLower(strings.TrimSpace(o.CredentialBackend))
		if backend != BackendFile && backend != BackendSQLite {
			return Config{}, fmt.Errorf("unknown credential backend %q", o.CredentialBackend)
		}
		cfg.CredentialBackend = backend
	}
	if o.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(o.LogLevel)); err != nil {
			return Config{}, fmt.Errorf("parse log level: %w", err)
		}
	}
	return cfg, nil
}

func withStateDir(cfg Config, dir string) Config {
	cfg.StateDir = dir
	cfg.DBPath = filepath.Join(dir, "state.db")
	cfg.CredentialsPath = filepath.Join(dir, "credentials.json")
	cfg.LogPath = filepath.Join(dir, "debug.log")
	return cfg
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

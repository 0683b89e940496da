package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Data modes select where datasets come from.
const (
	ModeDemo   = "demo"
	ModeFile   = "file"
	ModeRemote = "remote"
)

type AppConfig struct {
	Port string

	// DataMode is one of demo, file or remote.
	DataMode string
	DataFile string
	DataURL  string

	// GeneratorSeed makes demo data reproducible; 0 means unseeded.
	GeneratorSeed int64

	// RefreshInterval controls how often the active dataset is reloaded (0 = never).
	RefreshInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of datasets kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of superseded datasets (0 = unlimited)

	HTTPTimeout    time.Duration
	UploadMaxBytes int

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
// Callers that want .env support load it before calling Load.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:      getenvDefault("PORT", "8080"),
		DataMode:  getenvDefault("DATA_MODE", ModeDemo),
		DataFile:  os.Getenv("DATA_FILE"),
		DataURL:   os.Getenv("DATA_URL"),
		LogLevel:  getenvDefault("LOG_LEVEL", "info"),
		LogFormat: getenvDefault("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.GeneratorSeed, err = getenvInt64("GENERATOR_SEED", 0); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 10); err != nil {
		return nil, err
	}
	if cfg.UploadMaxBytes, err = getenvInt("UPLOAD_MAX_BYTES", 10<<20); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.DataMode {
	case ModeDemo:
	case ModeFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required when DATA_MODE=%s", ModeFile)
		}
	case ModeRemote:
		if c.DataURL == "" {
			return fmt.Errorf("DATA_URL is required when DATA_MODE=%s", ModeRemote)
		}
	default:
		return fmt.Errorf("invalid DATA_MODE %q: want %s, %s or %s", c.DataMode, ModeDemo, ModeFile, ModeRemote)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	StoreDriverGorm = "gorm"
	StoreDriverPgx  = "pgx"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	DefaultDatabaseURL      = "sqlite://hotel.db"
	DefaultStoreDriver      = StoreDriverGorm
	DefaultListenAddr       = ":8080"
	DefaultTimezone         = "UTC"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = LogFormatJSON
	DefaultLogMaxSizeMB     = 100
	DefaultLogMaxBackups    = 5
	DefaultLogMaxAgeDays    = 30
	DefaultMetricsNamespace = "innkeeper"
	DefaultShutdownTimeout  = 5 * time.Second
)

var (
	ErrInvalidConfig = errors.New("invalid config")

	validLogLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}
)

// Config is the runtime configuration of hoteld.
type Config struct {
	DatabaseURL      string
	StoreDriver      string
	ListenAddr       string
	AllowedOrigins   []string
	Timezone         string
	LogLevel         string
	LogFormat        string
	LogFile          string
	LogMaxSizeMB     int
	LogMaxBackups    int
	LogMaxAgeDays    int
	MetricsNamespace string
	ShutdownTimeout  time.Duration
}

// Default returns a Config populated with every default value.
func Default() Config {
	return Config{
		DatabaseURL:      DefaultDatabaseURL,
		StoreDriver:      DefaultStoreDriver,
		ListenAddr:       DefaultListenAddr,
		Timezone:         DefaultTimezone,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		LogMaxSizeMB:     DefaultLogMaxSizeMB,
		LogMaxBackups:    DefaultLogMaxBackups,
		LogMaxAgeDays:    DefaultLogMaxAgeDays,
		MetricsNamespace: DefaultMetricsNamespace,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}

// Validate fills empty fields with defaults and rejects invalid values.
func (cfg *Config) Validate() error {
	defaults := Default()
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaults.DatabaseURL
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = defaults.StoreDriver
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaults.Timezone
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaults.LogFormat
	}
	if cfg.LogMaxSizeMB == 0 {
		cfg.LogMaxSizeMB = defaults.LogMaxSizeMB
	}
	if cfg.LogMaxBackups == 0 {
		cfg.LogMaxBackups = defaults.LogMaxBackups
	}
	if cfg.LogMaxAgeDays == 0 {
		cfg.LogMaxAgeDays = defaults.LogMaxAgeDays
	}
	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = defaults.MetricsNamespace
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}

	switch cfg.StoreDriver {
	case StoreDriverGorm:
	case StoreDriverPgx:
		if !IsPostgresURL(cfg.DatabaseURL) {
			return fmt.Errorf("%w: store driver %q requires a postgres database url", ErrInvalidConfig, cfg.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, cfg.StoreDriver)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, cfg.Timezone, err)
	}
	if _, ok := validLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, cfg.LogLevel)
	}
	if cfg.LogFormat != LogFormatJSON && cfg.LogFormat != LogFormatConsole {
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, cfg.LogFormat)
	}
	if cfg.LogMaxSizeMB < 0 || cfg.LogMaxBackups < 0 || cfg.LogMaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation values must not be negative", ErrInvalidConfig)
	}
	if cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Location resolves the configured timezone.
func (cfg Config) Location() (*time.Location, error) {
	return time.LoadLocation(cfg.Timezone)
}

// IsPostgresURL reports whether dsn names a postgres server.
func IsPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ParseAllowedOrigins splits a comma-separated origin list, dropping blanks.
func ParseAllowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

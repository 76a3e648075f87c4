package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tropicaldog17/capgains/internal/db"
)

// Config is the full runtime configuration of the server and CLI.
type Config struct {
	Server   ServerConfig `toml:"server"`
	Database db.Config    `toml:"database"`
	Log      LogConfig    `toml:"log"`
	Gains    GainsConfig  `toml:"gains"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            string   `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	RateLimitRPS    float64  `toml:"rate_limit_rps"`
	RateLimitBurst  int      `toml:"rate_limit_burst"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

type LogConfig struct {
	Env   string `toml:"env"`
	Level string `toml:"level"`
}

// GainsConfig tunes report computation.
type GainsConfig struct {
	CacheTTL duration `toml:"cache_ttl"`
	// Workers bounds how many scopes of one owner are matched concurrently.
	Workers int `toml:"workers"`
}

// duration wraps time.Duration so TOML can carry strings like "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			CORSOrigins:     []string{"*"},
			RateLimitRPS:    10,
			RateLimitBurst:  30,
			ShutdownTimeout: duration{10 * time.Second},
		},
		Database: db.Config{
			Host:    "localhost",
			Port:    "5432",
			User:    "capgains",
			Name:    "capgains",
			SSLMode: "disable",
		},
		Log: LogConfig{
			Env:   "development",
			Level: "",
		},
		Gains: GainsConfig{
			CacheTTL: duration{5 * time.Minute},
			Workers:  4,
		},
	}
}

func (c *Config) CacheTTL() time.Duration        { return c.Gains.CacheTTL.Duration }
func (c *Config) ShutdownTimeout() time.Duration { return c.Server.ShutdownTimeout.Duration }

var validLogLevels = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for values the server cannot start with.
func (c *Config) Validate() error {
	var errs []string

	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Sprintf("server: port %q is not a valid TCP port", c.Server.Port))
	}
	if c.Server.RateLimitRPS < 0 {
		errs = append(errs, "server: rate_limit_rps must not be negative")
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0 {
		errs = append(errs, "server: rate_limit_burst must be positive when rate limiting is enabled")
	}
	if c.Server.ShutdownTimeout.Duration <= 0 {
		errs = append(errs, "server: shutdown_timeout must be positive")
	}

	if c.Database.Host == "" {
		errs = append(errs, "database: host must not be empty")
	}
	if p, err := strconv.Atoi(c.Database.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Sprintf("database: port %q is not a valid TCP port", c.Database.Port))
	}
	if c.Database.Name == "" {
		errs = append(errs, "database: name must not be empty")
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log: unknown level %q (valid: debug, info, warn, error)", c.Log.Level))
	}

	if c.Gains.Workers <= 0 {
		errs = append(errs, "gains: workers must be positive")
	}
	if c.Gains.CacheTTL.Duration < 0 {
		errs = append(errs, "gains: cache_ttl must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

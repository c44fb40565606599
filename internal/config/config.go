// Package config loads gridconv settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/bjaus/gridconv"
	"github.com/bjaus/gridconv/internal/logging"
)

// Config represents the gridconv configuration.
type Config struct {
	Log     Log     `toml:"log"`
	Server  Server  `toml:"server"`
	Store   Store   `toml:"store"`
	History History `toml:"history"`
	Convert Convert `toml:"convert"`
}

type Log struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	Timestamp bool   `toml:"timestamp"`
}

type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	RequestTimeout  Duration `toml:"request_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	MaxBodyBytes    int64    `toml:"max_body_bytes"`
}

type Store struct {
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	DSN        string `toml:"dsn"`
	Collection string `toml:"collection"`
}

type History struct {
	Limit int `toml:"limit"`
}

type Convert struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: Log{Level: "info", Format: "text", Timestamp: true},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			RequestTimeout:  Duration{20 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
			RateLimit:       10,
			RateBurst:       20,
			MaxBodyBytes:    10 << 20,
		},
		Store: Store{
			Driver:     DriverFile,
			Path:       filepath.Join(xdg.DataHome, "gridconv", "tables.json"),
			Collection: "savedTables",
		},
		History: History{Limit: 50},
		Convert: Convert{From: string(gridconv.CSV), To: string(gridconv.JSON)},
	}
}

// ConfigPath returns the path to the config file.
// Can be overridden for testing.
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "gridconv", "config.toml")
}

// Load reads the config file at path, or ConfigPath when path is empty, and
// applies GRIDCONV_* environment overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as TOML to path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GRIDCONV_LOG_LEVEL", &c.Log.Level)
	str("GRIDCONV_LOG_FORMAT", &c.Log.Format)
	str("GRIDCONV_ADDR", &c.Server.Addr)
	str("GRIDCONV_STORE_DRIVER", &c.Store.Driver)
	str("GRIDCONV_STORE_PATH", &c.Store.Path)
	str("GRIDCONV_STORE_DSN", &c.Store.DSN)
	str("GRIDCONV_STORE_COLLECTION", &c.Store.Collection)

	if v, ok := lookup("GRIDCONV_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GRIDCONV_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	if v, ok := lookup("GRIDCONV_HISTORY_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRIDCONV_HISTORY_LIMIT: %w", err)
		}
		c.History.Limit = n
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !logging.ValidFormat(c.Log.Format) {
		return fmt.Errorf("invalid log.format %q: must be one of: text, json, logfmt", c.Log.Format)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return errors.New("server rate limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		return errors.New("server.rate_burst must be positive when rate_limit is set")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	switch strings.ToLower(c.Store.Driver) {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path cannot be empty for driver %q", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn cannot be empty for driver \"postgres\"")
		}
	default:
		return fmt.Errorf("invalid store.driver %q: must be one of: memory, file, sqlite, postgres", c.Store.Driver)
	}
	if c.Store.Collection == "" {
		return errors.New("store.collection cannot be empty")
	}
	for _, f := range []string{c.Convert.From, c.Convert.To} {
		if _, err := gridconv.ParseFormat(f); err != nil {
			return fmt.Errorf("convert: %w", err)
		}
	}
	return nil
}

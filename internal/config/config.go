package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/autoshop/internal/dedup"
	"github.com/cleared-dev/autoshop/internal/store"
)

// FileName is the config file at the root of a shop directory.
const FileName = "autoshop.yaml"

// DefaultTokenEnv is read for the API token when api.token_env is unset.
const DefaultTokenEnv = "AUTOSHOP_TOKEN"

// Config represents the top-level autoshop.yaml configuration.
type Config struct {
	Shop    ShopConfig    `yaml:"shop"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Git     GitConfig     `yaml:"git"`
}

// ShopConfig identifies the shop.
type ShopConfig struct {
	Name string `yaml:"name"`
}

// APIConfig points at the shop backend.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Token     string        `yaml:"token,omitempty"`
	TokenEnv  string        `yaml:"token_env"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst"`
}

// StorageConfig selects where imported signatures are remembered.
type StorageConfig struct {
	Driver    string `yaml:"driver"`         // memory, pebble, sqlite, postgres, redis
	Path      string `yaml:"path,omitempty"` // relative to the shop directory
	DSN       string `yaml:"dsn,omitempty"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	Key       string `yaml:"key"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, logfmt, json
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an autoshop.yaml file from disk. Unset fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new shop directory.
func Default(shopName string) *Config {
	return &Config{
		Shop: ShopConfig{Name: shopName},
		API: APIConfig{
			BaseURL:   "http://localhost:5000/api",
			TokenEnv:  DefaultTokenEnv,
			Timeout:   30 * time.Second,
			RateLimit: 10,
			Burst:     5,
		},
		Storage: StorageConfig{
			Driver: store.DriverPebble,
			Path:   filepath.Join(".autoshop", "signatures"),
			Key:    dedup.DefaultKey,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Autoshop Importer",
			AuthorEmail: "importer@autoshop.local",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "", store.DriverMemory, store.DriverPebble, store.DriverSQLite:
	case store.DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	case store.DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	switch c.Log.Format {
	case "", "text", "logfmt", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	if c.API.Timeout < 0 || c.API.RateLimit < 0 {
		return fmt.Errorf("api.timeout and api.rate_limit must not be negative")
	}
	return nil
}

// ResolveToken picks the API token: the flag value, then the environment
// variable named by api.token_env, then api.token.
func (c *Config) ResolveToken(flag string, getenv func(string) string) string {
	if t := strings.TrimSpace(flag); t != "" {
		return t
	}
	env := c.API.TokenEnv
	if env == "" {
		env = DefaultTokenEnv
	}
	if getenv != nil {
		if t := strings.TrimSpace(getenv(env)); t != "" {
			return t
		}
	}
	return strings.TrimSpace(c.API.Token)
}

// StoreOptions returns the storage options with file paths resolved
// against the shop directory.
func (c *Config) StoreOptions(shopDir string) store.Options {
	path := c.Storage.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(shopDir, path)
	}
	return store.Options{
		Driver:    c.Storage.Driver,
		Path:      path,
		DSN:       c.Storage.DSN,
		RedisAddr: c.Storage.RedisAddr,
	}
}

// CacheKey is the storage key for imported signatures.
func (c *Config) CacheKey() string {
	if c.Storage.Key == "" {
		return dedup.DefaultKey
	}
	return c.Storage.Key
}

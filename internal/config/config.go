// Package config provides configuration loading and validation for the
// job board service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no path is given and the file exists
const DefaultConfigFile = "config.yaml"

// AppConfig is the service configuration. It can be loaded from a YAML file;
// environment variables override file values.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Search    SearchConfig    `yaml:"search"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port                int `yaml:"port"`
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int `yaml:"idle_timeout_seconds"`
}

// DatabaseConfig configures PostgreSQL
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig configures event publishing. An empty URL disables Redis and
// events are only logged.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

// SchedulerConfig configures the maintenance jobs
type SchedulerConfig struct {
	Enabled        bool   `yaml:"enabled"`
	PostingTTLDays int    `yaml:"posting_ttl_days"`
	ExpireSpec     string `yaml:"expire_spec"`
	RatingsSpec    string `yaml:"ratings_spec"`
}

// SearchConfig bounds job search paging
type SearchConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// IdleTimeout returns the server idle timeout
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}

// PostingTTL returns how long a posting stays active before it is closed.
// Zero disables expiry.
func (s SchedulerConfig) PostingTTL() time.Duration {
	return time.Duration(s.PostingTTLDays) * 24 * time.Hour
}

// Load reads the YAML file at path (if any), applies environment overrides
// and defaults, and validates the result. An empty path falls back to
// CONFIG_FILE and then to DefaultConfigFile when it exists.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	explicit := path != ""
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides file values with environment variables that are set
func (c *AppConfig) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("REDIS_CHANNEL"); v != "" {
		c.Redis.Channel = v
	}
	if v := os.Getenv("SCHEDULER_EXPIRE_SPEC"); v != "" {
		c.Scheduler.ExpireSpec = v
	}
	if v := os.Getenv("SCHEDULER_RATINGS_SPEC"); v != "" {
		c.Scheduler.RatingsSpec = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &c.Server.Port},
		{"POSTING_TTL_DAYS", &c.Scheduler.PostingTTLDays},
		{"SEARCH_DEFAULT_PAGE_SIZE", &c.Search.DefaultPageSize},
		{"SEARCH_MAX_PAGE_SIZE", &c.Search.MaxPageSize},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", e.name, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_ENABLED: %v", err)
		}
		c.Scheduler.Enabled = b
	}
	return nil
}

// ApplyDefaults fills zero values
func (c *AppConfig) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 60
	}
	if c.Server.IdleTimeoutSeconds == 0 {
		c.Server.IdleTimeoutSeconds = 60
	}
	if c.Scheduler.ExpireSpec == "" {
		c.Scheduler.ExpireSpec = "@every 1h"
	}
	if c.Scheduler.RatingsSpec == "" {
		c.Scheduler.RatingsSpec = "@every 6h"
	}
	if c.Search.DefaultPageSize == 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize == 0 {
		c.Search.MaxPageSize = 100
	}
}

// Validate checks that the configuration has valid values.
// The database URL is checked by the commands that need it.
func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 || c.Server.IdleTimeoutSeconds < 0 {
		return fmt.Errorf("config error: server timeouts must be non-negative")
	}
	if c.Scheduler.PostingTTLDays < 0 {
		return fmt.Errorf("config error: 'scheduler.posting_ttl_days' must be non-negative")
	}
	if c.Search.DefaultPageSize < 1 {
		return fmt.Errorf("config error: 'search.default_page_size' must be positive")
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("config error: 'search.max_page_size' (%d) must be at least 'search.default_page_size' (%d)",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}
	return nil
}

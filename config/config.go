// Package config loads the YAML configuration used by the binaries.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/coursesearch/index"
	"github.com/poiesic/coursesearch/vocab"
)

// Storage drivers.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

// Config holds the coursesearch configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Eval    EvalConfig    `yaml:"eval"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects the document store.
type StorageConfig struct {
	Driver string `yaml:"driver"` // badger, sqlite (default: badger)
	Path   string `yaml:"path"`
}

// IndexConfig holds indexing settings.
type IndexConfig struct {
	TitleWeight    int    `yaml:"title_weight"`
	BatchSize      int    `yaml:"batch_size"`
	ReportInterval int    `yaml:"report_interval"`
	PoolSize       int    `yaml:"pool_size"` // 0 = half the CPUs
	SkipInvalid    bool   `yaml:"skip_invalid"`
	VocabularyFile string `yaml:"vocabulary_file"` // also write the vocabulary here
	MaxRetries     int    `yaml:"max_retries"`
	RetryDelayMs   int    `yaml:"retry_delay_ms"`
}

// SearchConfig holds query settings.
type SearchConfig struct {
	MaxHits int `yaml:"max_hits"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	TestSet     string `yaml:"test_set"`
	Concurrency int    `yaml:"concurrency"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

// Default returns a configuration with every default applied.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding environment variables first.
func Parse(data []byte) (Config, error) {
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

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverBadger
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./catalog_db"
	}
	defaults := index.DefaultConfig()
	if c.Index.TitleWeight <= 0 {
		c.Index.TitleWeight = vocab.DefaultTitleWeight
	}
	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = defaults.BatchSize
	}
	if c.Index.ReportInterval <= 0 {
		c.Index.ReportInterval = defaults.ReportInterval
	}
	if c.Index.MaxRetries <= 0 {
		c.Index.MaxRetries = defaults.MaxRetries
	}
	if c.Index.RetryDelayMs <= 0 {
		c.Index.RetryDelayMs = int(defaults.RetryDelay / time.Millisecond)
	}
	if c.Search.MaxHits <= 0 {
		c.Search.MaxHits = 10
	}
	if c.Eval.Concurrency <= 0 {
		c.Eval.Concurrency = 1
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverBadger, DriverSQLite:
		// ok
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverBadger, DriverSQLite, c.Storage.Driver)
	}
	if c.Index.PoolSize < 0 {
		return fmt.Errorf("index.pool_size must not be negative, got %d", c.Index.PoolSize)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// IndexerConfig converts the index section into an indexing run config.
func (c *Config) IndexerConfig() *index.Config {
	ic := index.DefaultConfig()
	ic.TitleWeight = c.Index.TitleWeight
	ic.BatchSize = c.Index.BatchSize
	ic.ReportInterval = c.Index.ReportInterval
	if c.Index.PoolSize > 0 {
		ic.PoolSize = c.Index.PoolSize
	}
	ic.SkipInvalid = c.Index.SkipInvalid
	ic.ArtifactPath = c.Index.VocabularyFile
	ic.MaxRetries = c.Index.MaxRetries
	ic.RetryDelay = time.Duration(c.Index.RetryDelayMs) * time.Millisecond
	return ic
}

// ParseLevel maps a level name onto an slog level.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", level)
	}
	return l, nil
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

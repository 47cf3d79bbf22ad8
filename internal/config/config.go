package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/lookup"
	"github.com/tatianab/wikigen/internal/models"
)

// Store backends.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Lookup  LookupConfig  `yaml:"lookup"`
	Store   StoreConfig   `yaml:"store"`
	Logging logger.Config `yaml:"logging"`
}

// LookupConfig configures the creature type lookup service.
type LookupConfig struct {
	BaseURL string `yaml:"base_url"`
	// Concurrency bounds the number of lookups in flight per render pass.
	Concurrency int `yaml:"concurrency"`
	// Timeout applies to each request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig selects where raw field values are kept.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path defaults to a file under models.DefaultSaveDir named after the
	// backend.
	Path string `yaml:"path"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Lookup: LookupConfig{
			BaseURL:     lookup.DefaultBaseURL,
			Concurrency: 8,
		},
		Store: StoreConfig{
			Backend: BackendYAML,
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig builds the configuration from defaults, a .env file in the
// working directory, the YAML file at path (skipped when path is empty) and
// environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty file keeps the defaults.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Backend)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultStorePath returns the store file used by backend when none is set.
func DefaultStorePath(backend string) string {
	if backend == BackendSQLite {
		return filepath.Join(models.DefaultSaveDir, "fields.db")
	}
	return filepath.Join(models.DefaultSaveDir, "fields.yaml")
}

func applyEnv(cfg *Config) error {
	var errs []error
	if v := os.Getenv("WIKIGEN_LOOKUP_URL"); v != "" {
		cfg.Lookup.BaseURL = v
	}
	if v := os.Getenv("WIKIGEN_LOOKUP_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("WIKIGEN_LOOKUP_CONCURRENCY: %w", err))
		}
		cfg.Lookup.Concurrency = n
	}
	if v := os.Getenv("WIKIGEN_LOOKUP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("WIKIGEN_LOOKUP_TIMEOUT: %w", err))
		}
		cfg.Lookup.Timeout = d
	}
	if v := os.Getenv("WIKIGEN_STORE"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("WIKIGEN_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FILE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_FILE_ENABLED: %w", err))
		}
		cfg.Logging.FileEnabled = b
	}
	if v := os.Getenv("LOG_FILE_PATH"); v != "" {
		cfg.Logging.FilePath = v
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate returns a joined error listing every invalid value in cfg.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.Lookup.BaseURL == "" {
		errs = append(errs, errors.New("lookup.base_url is required"))
	}
	if cfg.Lookup.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("lookup.concurrency %d must be at least 1", cfg.Lookup.Concurrency))
	}
	if cfg.Lookup.Timeout < 0 {
		errs = append(errs, fmt.Errorf("lookup.timeout %s must not be negative", cfg.Lookup.Timeout))
	}
	switch cfg.Store.Backend {
	case BackendYAML, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is invalid; valid values: yaml, sqlite", cfg.Store.Backend))
	}
	if cfg.Logging.FileEnabled && cfg.Logging.FilePath == "" {
		errs = append(errs, errors.New("logging.file_path is required when file logging is enabled"))
	}
	return errors.Join(errs...)
}

// OpenStore opens the field store selected by cfg.
func (c *Config) OpenStore() (models.Store, error) {
	switch c.Store.Backend {
	case BackendSQLite:
		return models.OpenSQLiteStore(c.Store.Path)
	default:
		return models.OpenYAMLStore(c.Store.Path)
	}
}

// NewLookupClient returns the HTTP lookup client described by cfg.
func (c *Config) NewLookupClient(opts ...lookup.Option) *lookup.HTTPClient {
	if c.Lookup.Timeout > 0 {
		opts = append([]lookup.Option{lookup.WithTimeout(c.Lookup.Timeout)}, opts...)
	}
	return lookup.New(c.Lookup.BaseURL, opts...)
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/iksnae/smartnotes/internal"
)

// EnvPrefix is prepended to every environment variable the client reads
const EnvPrefix = "SMARTNOTES_"

// Config holds all configuration options
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url" env:"API_BASE_URL,overwrite"`
	DataDir        string        `yaml:"data_dir" env:"DATA_DIR,overwrite"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT,overwrite"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL,overwrite"`
	OTLPEndpoint   string        `yaml:"otlp_endpoint,omitempty" env:"OTLP_ENDPOINT,overwrite"`
	TitleCap       int           `yaml:"title_cap" env:"TITLE_CAP,overwrite"`
	PreviewCap     int           `yaml:"preview_cap" env:"PREVIEW_CAP,overwrite"`
}

// Options controls where Load looks for configuration
type Options struct {
	// Path of the YAML file. A missing file is not an error.
	Path string
	// EnvFile is a dotenv file consulted after the process environment. A missing file is not an error.
	EnvFile string
	// Lookuper replaces the process environment, mainly for tests
	Lookuper envconfig.Lookuper
}

// DefaultConfig returns the default configuration rooted at paths
func DefaultConfig(paths internal.StoragePaths) *Config {
	return &Config{
		APIBaseURL:     "http://localhost:5000",
		DataDir:        paths.DataDir,
		RequestTimeout: 15 * time.Second,
		LogLevel:       "info",
		TitleCap:       internal.DefaultTitleCap,
		PreviewCap:     internal.DefaultPreviewCap,
	}
}

// Load layers the YAML file, the dotenv file and the environment over the defaults
func Load(ctx context.Context, paths internal.StoragePaths, opts Options) (*Config, error) {
	cfg := DefaultConfig(paths)

	if opts.Path != "" {
		if err := loadFile(opts.Path, cfg); err != nil {
			return nil, err
		}
	}

	lookuper := opts.Lookuper
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if opts.EnvFile != "" {
		dotenv, err := godotenv.Read(opts.EnvFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, &internal.ParseError{Source: "config", Key: opts.EnvFile, Err: err}
		default:
			lookuper = envconfig.MultiLookuper(lookuper, envconfig.MapLookuper(dotenv))
		}
	}

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	})
	if err != nil {
		return nil, &internal.ParseError{Source: "config", Key: "environment", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &internal.ParseError{Source: "config", Key: path, Err: err}
	}
	return nil
}

// Validate rejects values the client cannot run with
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return &internal.ValidationError{Field: "api_base_url", Reason: "is required"}
	}
	if c.DataDir == "" {
		return &internal.ValidationError{Field: "data_dir", Reason: "is required"}
	}
	if c.RequestTimeout <= 0 {
		return &internal.ValidationError{Field: "request_timeout", Reason: "must be positive"}
	}
	if c.TitleCap <= 0 {
		return &internal.ValidationError{Field: "title_cap", Reason: "must be positive"}
	}
	if c.PreviewCap <= 0 {
		return &internal.ValidationError{Field: "preview_cap", Reason: "must be positive"}
	}
	return nil
}

// Save writes the configuration as YAML, creating the directory if needed
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &internal.StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &internal.StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Package config loads csvweaver settings from a YAML file and environment
// variables.
//
// Sources in precedence order, highest first:
//  1. Command-line flags, applied by the caller
//  2. Environment variables (CSVWEAVER_*)
//  3. The configuration file
//  4. Built-in defaults
//
// Without an explicit path the first existing file among .csvweaver.yaml,
// .csvweaver.yml, ~/.csvweaver/config.yaml and ~/.csvweaver/config.yml is used.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/drblury/csvweaver/csvresponse"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvAddr          = "CSVWEAVER_ADDR"
	EnvMongoURI      = "CSVWEAVER_MONGO_URI"
	EnvMongoDatabase = "CSVWEAVER_MONGO_DATABASE"
	EnvEncoding      = "CSVWEAVER_ENCODING"
	EnvLogLevel      = "CSVWEAVER_LOG_LEVEL"
	EnvLogFormat     = "CSVWEAVER_LOG_FORMAT"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads configuration from configPath, or from the first default
// location that exists when configPath is empty, then applies environment
// overrides. A missing default file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			break
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultPaths() []string {
	paths := []string{".csvweaver.yaml", ".csvweaver.yml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths,
			filepath.Join(home, ".csvweaver", "config.yaml"),
			filepath.Join(home, ".csvweaver", "config.yml"),
		)
	}
	return paths
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Datasets == nil {
		cfg.Datasets = make(map[string]DatasetConfig)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Server.Addr = addr
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		cfg.Mongo.URI = uri
	}
	if db := os.Getenv(EnvMongoDatabase); db != "" {
		cfg.Mongo.Database = db
	}
	if enc := os.Getenv(EnvEncoding); enc != "" {
		cfg.CSV.Encoding = enc
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		cfg.Log.Format = format
	}
}

// SlogLevel parses Level using the slog level names ("debug", "info",
// "warn", "error", optionally with an offset such as "info+2").
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, l.Level)
	}
	return level, nil
}

// Validate checks the loaded values. It should run after flags are applied.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server address cannot be empty", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max body bytes must be positive, got %d", ErrInvalidConfig, c.Server.MaxBodyBytes)
	}
	if c.Server.ProbeTimeout <= 0 {
		return fmt.Errorf("%w: probe timeout must be positive, got %s", ErrInvalidConfig, c.Server.ProbeTimeout)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log format must be json or text, got %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.CSV.Delimiter == "" || c.CSV.Encoding == "" {
		return fmt.Errorf("%w: csv delimiter and encoding cannot be empty", ErrInvalidConfig)
	}
	if err := validateCSV("csv", c.CSV.Delimiter, c.CSV.Encoding); err != nil {
		return err
	}
	if len(c.Datasets) > 0 && c.Mongo.URI == "" {
		return fmt.Errorf("%w: datasets require a mongo uri", ErrInvalidConfig)
	}
	for name, ds := range c.Datasets {
		if err := ds.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (d DatasetConfig) validate(name string) error {
	if name == "" || strings.ContainsAny(name, "/?#") {
		return fmt.Errorf("%w: dataset name %q cannot be used in a URL path", ErrInvalidConfig, name)
	}
	if d.Collection == "" {
		return fmt.Errorf("%w: dataset %s: collection cannot be empty", ErrInvalidConfig, name)
	}
	if d.Limit < 0 {
		return fmt.Errorf("%w: dataset %s: limit must not be negative, got %d", ErrInvalidConfig, name, d.Limit)
	}
	for _, key := range d.Sort {
		if strings.TrimPrefix(key, "-") == "" {
			return fmt.Errorf("%w: dataset %s: empty sort key", ErrInvalidConfig, name)
		}
	}
	return validateCSV("dataset "+name, d.Delimiter, d.Encoding)
}

// validateCSV skips empty values, which datasets inherit from the csv section.
func validateCSV(section, delimiter, encoding string) error {
	if delimiter != "" && utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("%w: %s: delimiter must be a single character, got %q", ErrInvalidConfig, section, delimiter)
	}
	if encoding != "" {
		if err := csvresponse.ValidateEncoding(encoding); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, section, err)
		}
	}
	return nil
}

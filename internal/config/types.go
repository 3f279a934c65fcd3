package config

import (
	"time"

	"github.com/drblury/csvweaver/csvresponse"
	"github.com/drblury/csvweaver/router"
)

// Config is the complete csvweaver configuration.
type Config struct {
	Server   ServerConfig             `yaml:"server"`
	Log      LogConfig                `yaml:"log"`
	CSV      CSVConfig                `yaml:"csv"`
	Mongo    MongoConfig              `yaml:"mongo"`
	Datasets map[string]DatasetConfig `yaml:"datasets"`
}

// ServerConfig controls the HTTP listener and the middleware chain.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BaseURL         string        `yaml:"base_url"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout"`
	Router          router.Config `yaml:"router"`
}

// LogConfig selects the slog handler built by the CLI.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CSVConfig holds the service-wide formatting defaults. Request parameters and
// dataset settings override them.
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
	Quoted    bool   `yaml:"quoted"`
	Encoding  string `yaml:"encoding"`
}

// MongoConfig points at the deployment holding the export datasets. An empty
// URI disables the /exports endpoints.
type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	QueryTimeout   time.Duration `yaml:"query_timeout"`
}

// DatasetConfig describes one named export. Fields set both the projection
// and the column order. Sort entries prefixed with "-" sort descending.
type DatasetConfig struct {
	Database   string   `yaml:"database"`
	Collection string   `yaml:"collection"`
	Fields     []string `yaml:"fields"`
	Sort       []string `yaml:"sort"`
	Limit      int64    `yaml:"limit"`
	Filename   string   `yaml:"filename"`
	Delimiter  string   `yaml:"delimiter"`
	Quoted     *bool    `yaml:"quoted"`
	Encoding   string   `yaml:"encoding"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    8 << 20,
			ProbeTimeout:    2 * time.Second,
			Router: router.Config{
				Timeout:         30 * time.Second,
				QuietdownRoutes: []string{"/info/healthz", "/info/readyz"},
				HideHeaders:     []string{"Authorization", "Cookie"},
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CSV: CSVConfig{
			Delimiter: csvresponse.DefaultDelimiter,
			Encoding:  csvresponse.DefaultEncoding,
		},
		Mongo: MongoConfig{
			Database:       "csvweaver",
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   30 * time.Second,
		},
		Datasets: make(map[string]DatasetConfig),
	}
}

// Options converts the service defaults to builder options.
func (c CSVConfig) Options() []csvresponse.Option {
	return []csvresponse.Option{
		csvresponse.WithDelimiter(c.Delimiter),
		csvresponse.WithQuoted(c.Quoted),
		csvresponse.WithEncoding(c.Encoding),
	}
}

// Options returns the overrides a dataset applies on top of the service
// defaults. Unset fields produce no option.
func (d DatasetConfig) Options() []csvresponse.Option {
	var opts []csvresponse.Option
	if d.Delimiter != "" {
		opts = append(opts, csvresponse.WithDelimiter(d.Delimiter))
	}
	if d.Quoted != nil {
		opts = append(opts, csvresponse.WithQuoted(*d.Quoted))
	}
	if d.Encoding != "" {
		opts = append(opts, csvresponse.WithEncoding(d.Encoding))
	}
	if d.Filename != "" {
		opts = append(opts, csvresponse.WithAttachment(d.Filename))
	}
	return opts
}

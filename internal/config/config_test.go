package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/csvweaver/csvresponse"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.Router.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Server.ProbeTimeout)
	assert.Equal(t, csvresponse.DefaultDelimiter, cfg.CSV.Delimiter)
	assert.Equal(t, csvresponse.DefaultEncoding, cfg.CSV.Encoding)
	assert.False(t, cfg.CSV.Quoted)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Mongo.URI)
	assert.NotNil(t, cfg.Datasets)
	require.NoError(t, cfg.Validate())
}

func TestLoadExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "csvweaver.yaml", `
server:
  addr: 127.0.0.1:9000
  probe_timeout: 750ms
  router:
    timeout: 5s
    cors:
      origins: ["https://reports.example.com"]
log:
  level: debug
  format: text
csv:
  delimiter: ";"
  quoted: true
  encoding: UTF-8
mongo:
  uri: mongodb://localhost:27017
  database: shop
datasets:
  orders:
    collection: orders
    fields: [number, customer, total]
    sort: ["-created_at"]
    limit: 500
    filename: orders.csv
    quoted: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.Router.Timeout)
	assert.Equal(t, 750*time.Millisecond, cfg.Server.ProbeTimeout)
	assert.Equal(t, []string{"https://reports.example.com"}, cfg.Server.Router.CORS.Origins)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, CSVConfig{Delimiter: ";", Quoted: true, Encoding: "UTF-8"}, cfg.CSV)
	assert.Equal(t, "shop", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout, "unset values keep defaults")

	orders := cfg.Datasets["orders"]
	assert.Equal(t, "orders", orders.Collection)
	assert.Equal(t, []string{"number", "customer", "total"}, orders.Fields)
	assert.Equal(t, []string{"-created_at"}, orders.Sort)
	assert.EqualValues(t, 500, orders.Limit)
	require.NotNil(t, orders.Quoted)
	assert.False(t, *orders.Quoted)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", "server: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadDefaultLocations(t *testing.T) {
	work := t.TempDir()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr, "no file falls back to defaults")

	writeConfig(t, home, filepath.Join(".csvweaver", "config.yaml"), "server:\n  addr: :7000\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)

	writeConfig(t, work, ".csvweaver.yaml", "server:\n  addr: :6000\n")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.Addr, "working directory wins over home")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "c.yaml", `
server:
  addr: :9000
csv:
  encoding: UTF-8
mongo:
  uri: ${TEST_MONGO_URI}
`)
	t.Setenv("TEST_MONGO_URI", "mongodb://file-host")
	t.Setenv(EnvAddr, ":9100")
	t.Setenv(EnvEncoding, "ISO-8859-1")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "text")
	t.Setenv(EnvMongoDatabase, "analytics")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "ISO-8859-1", cfg.CSV.Encoding)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "analytics", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://file-host", cfg.Mongo.URI, "file values expand environment references")

	t.Setenv(EnvMongoURI, "mongodb://env-host")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://env-host", cfg.Mongo.URI)
}

func TestValidate(t *testing.T) {
	quoted := true
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: "server address"},
		{name: "body limit", mutate: func(c *Config) { c.Server.MaxBodyBytes = 0 }, wantErr: "max body bytes"},
		{name: "probe timeout", mutate: func(c *Config) { c.Server.ProbeTimeout = 0 }, wantErr: "probe timeout"},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "chatty" }, wantErr: "log level"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
		{name: "empty delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "" }, wantErr: "cannot be empty"},
		{name: "long delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "||" }, wantErr: "single character"},
		{name: "multibyte delimiter", mutate: func(c *Config) { c.CSV.Delimiter = "§" }},
		{name: "unknown encoding", mutate: func(c *Config) { c.CSV.Encoding = "klingon-8" }, wantErr: "unknown encoding"},
		{
			name:    "datasets without mongo",
			mutate:  func(c *Config) { c.Datasets["orders"] = DatasetConfig{Collection: "orders"} },
			wantErr: "require a mongo uri",
		},
		{
			name: "valid dataset",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost"
				c.Datasets["orders"] = DatasetConfig{Collection: "orders", Sort: []string{"-total"}, Quoted: &quoted, Encoding: "UTF-8"}
			},
		},
		{
			name: "dataset without collection",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost"
				c.Datasets["orders"] = DatasetConfig{}
			},
			wantErr: "collection cannot be empty",
		},
		{
			name: "dataset name with slash",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost"
				c.Datasets["a/b"] = DatasetConfig{Collection: "orders"}
			},
			wantErr: "URL path",
		},
		{
			name: "negative limit",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost"
				c.Datasets["orders"] = DatasetConfig{Collection: "orders", Limit: -1}
			},
			wantErr: "limit",
		},
		{
			name: "empty sort key",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost"
				c.Datasets["orders"] = DatasetConfig{Collection: "orders", Sort: []string{"-"}}
			},
			wantErr: "sort key",
		},
		{
			name: "dataset delimiter",
			mutate: func(c *Config) {
				c.Mongo.URI = "mongodb://localhost"
				c.Datasets["orders"] = DatasetConfig{Collection: "orders", Delimiter: ";;"}
			},
			wantErr: "dataset orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	rows := [][]string{{"a;b", "c"}}

	base := CSVConfig{Delimiter: ";", Quoted: true, Encoding: "UTF-8"}
	resp, err := csvresponse.Build(rows, base.Options()...)
	require.NoError(t, err)
	assert.Equal(t, `"a;b";"c"`, string(resp.Body))

	unquoted := false
	ds := DatasetConfig{Delimiter: "|", Quoted: &unquoted, Filename: "orders.csv"}
	opts := append(base.Options(), ds.Options()...)
	resp, err = csvresponse.Build(rows, opts...)
	require.NoError(t, err)
	assert.Equal(t, "a;b|c", string(resp.Body))
	assert.Equal(t, "attachment; filename=orders.csv", resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=UTF-8", resp.Header.Get("Content-Type"))

	assert.Empty(t, DatasetConfig{}.Options())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with empty environment", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SPEND_SERVER_PORT", "9090")
		t.Setenv("SPEND_LOGGING_LEVEL", "debug")
		t.Setenv("SPEND_UPLOAD_MAX_BYTES", "2048")
		t.Setenv("SPEND_FORECAST_FIT_TIMEOUT", "750ms")
		t.Setenv("SPEND_UPLOAD_MAX_DAYS", "400")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
		assert.Equal(t, 750*time.Millisecond, cfg.Forecast.FitTimeout)
		assert.Equal(t, 400, cfg.Upload.MaxDays)
	})

	t.Run("config file overrides environment", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := filepath.Join(dir, "config.yaml")
		content := "server:\n  port: 7070\nchart:\n  dpi: 120\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		t.Setenv("SPEND_SERVER_PORT", "9090")
		t.Setenv(ConfigFileEnv, path)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, 120, cfg.Chart.DPI)
		// keys absent from the file keep their env/default values
		assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
	})

	t.Run("dotenv file is read", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SPEND_CHART_DPI=150\n"), 0o644))
		t.Cleanup(func() { os.Unsetenv("SPEND_CHART_DPI") })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 150, cfg.Chart.DPI)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(ConfigFileEnv, "does-not-exist.yaml")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config from file")
	})

	t.Run("invalid environment value", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SPEND_SERVER_PORT", "not-a-port")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config from env")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "unknown log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, wantErr: true},
		{name: "zero upload limit", mutate: func(c *Config) { c.Upload.MaxBytes = 0 }, wantErr: true},
		{name: "unsupported extension", mutate: func(c *Config) { c.Upload.AllowedExtensions = []string{".json"} }, wantErr: true},
		{name: "no extensions", mutate: func(c *Config) { c.Upload.AllowedExtensions = nil }, wantErr: true},
		{name: "day limit below two", mutate: func(c *Config) { c.Upload.MaxDays = 1 }, wantErr: true},
		{name: "tiny iteration budget", mutate: func(c *Config) { c.Forecast.MaxIterations = 10 }, wantErr: true},
		{name: "dpi too high", mutate: func(c *Config) { c.Chart.DPI = 1200 }, wantErr: true},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, wantErr: true},
		{
			name: "write timeout shorter than request timeout",
			mutate: func(c *Config) {
				c.Server.WriteTimeout = time.Second
				c.Server.RequestTimeout = 5 * time.Second
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	cfg := Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8181
	assert.Equal(t, "127.0.0.1:8181", cfg.Address())
}

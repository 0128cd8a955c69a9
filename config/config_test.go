package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
evaluator:
  horizon_hours: 12
  bar_interval: M5
  entry_tolerance: 0.5
monitor:
  poll_interval_seconds: 5
  close_tolerance: 2.0
  max_concurrent: 8
trading:
  default_volume: 0.02
  volumes:
    XAUUSD.S: 0.01
gateway:
  base_url: http://localhost:9999
storage:
  dsn: /tmp/test.db
report:
  cron_spec: "0 8 * * *"
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12*time.Hour, cfg.Horizon())
	assert.Equal(t, "M5", cfg.Evaluator.BarInterval)
	assert.Equal(t, 0.5, cfg.Evaluator.EntryTolerance)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, 2.0, cfg.Monitor.CloseTolerance)
	assert.Equal(t, 8, cfg.Monitor.MaxConcurrent)
	assert.Equal(t, 0.01, cfg.Trading.Volumes["XAUUSD.S"])
	assert.Equal(t, "http://localhost:9999", cfg.Gateway.BaseURL)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.DSN)
	assert.Equal(t, "0 8 * * *", cfg.Report.CronSpec)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Horizon())
	assert.Equal(t, "M1", cfg.Evaluator.BarInterval)
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
	assert.Equal(t, 1.0, cfg.Monitor.CloseTolerance)
	assert.Equal(t, 32, cfg.Monitor.MaxConcurrent)
	assert.Equal(t, 0.01, cfg.Trading.DefaultVolume)
	assert.Equal(t, "sigmon.db", cfg.Storage.DSN)
	assert.Equal(t, "@hourly", cfg.Report.CronSpec)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_HorizonClamped(t *testing.T) {
	cfg, err := Load(writeConfig(t, "evaluator:\n  horizon_hours: 96\n"))
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.Horizon())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MT5_GATEWAY_URL", "http://gw:8080")
	t.Setenv("SIGMON_DSN", ":memory:")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "gateway:\n  base_url: http://yaml-value\n"))
	require.NoError(t, err)

	assert.Equal(t, "http://gw:8080", cfg.Gateway.BaseURL)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "evaluator: [not a map"))
	assert.Error(t, err)
}

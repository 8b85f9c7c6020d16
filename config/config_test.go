package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  csv: series.csv
artifacts:
  dir: models
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Model.Orders.Daily)
	assert.Equal(t, 10, cfg.Model.Orders.Weekly)
	assert.Equal(t, 25, cfg.Model.Changepoints)
	assert.Equal(t, 30, cfg.Model.HoldoutDays)
	assert.Equal(t, 168, cfg.Model.MaxHorizonHours)
	assert.Equal(t, 1.25, cfg.Model.Calibration)
	assert.Equal(t, "linear", cfg.Model.TrendExtrapolation)
	assert.Equal(t, "training_report.csv", cfg.Training.ReportPath)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusPort)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  csv: series.csv
artifacts:
  dir: models
model:
  seasonal_orders:
    daily: 8
    weekly: 4
    yearly: 3
  trend_extrapolation: flat
  calibration: 1.0
training:
  workers: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Model.Orders.Daily)
	assert.Equal(t, "flat", cfg.Model.TrendExtrapolation)
	assert.Equal(t, 1.0, cfg.Model.Calibration)
	assert.Equal(t, 2, cfg.Training.Workers)
}

func TestLoadRejectsMissingData(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
artifacts:
  dir: models
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadExtrapolation(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  csv: series.csv
artifacts:
  dir: models
model:
  trend_extrapolation: quadratic
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsIncompleteInflux(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  csv: series.csv
artifacts:
  dir: models
metrics:
  influx_enabled: true
  influx_url: http://localhost:8086
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "influx_token")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "data = 1")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
data:
  csv: series.csv
artifacts:
  dir: models
`)
	t.Setenv("SK_TRAINING__WORKERS", "7")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Training.Workers)
}

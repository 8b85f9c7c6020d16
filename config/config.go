package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sekka-mobility/forecast/core/forecast"
	"github.com/sekka-mobility/forecast/core/metrics"
)

// DataConfig locates the historical input series.
type DataConfig struct {
	CSV string `json:"csv"`
}

// ArtifactsConfig locates persisted model artifacts.
type ArtifactsConfig struct {
	Dir string `json:"dir"`
}

// TrainingConfig controls the batch pipeline.
type TrainingConfig struct {
	// Workers bounds concurrent route training; 0 means one per CPU core.
	Workers    int    `json:"workers"`
	ReportPath string `json:"report_path"`
}

// SetDefaults applies sane defaults.
func (c *TrainingConfig) SetDefaults() {
	if c.ReportPath == "" {
		c.ReportPath = "training_report.csv"
	}
}

// Validate checks mandatory fields.
func (c TrainingConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

type Config struct {
	Data      DataConfig      `json:"data"`
	Artifacts ArtifactsConfig `json:"artifacts"`
	Model     forecast.Config `json:"model"`
	Training  TrainingConfig  `json:"training"`
	Metrics   metrics.Config  `json:"metrics"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("SK_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sk_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Model.SetDefaults()
	cfg.Training.SetDefaults()
	cfg.Metrics.SetDefaults()
	if cfg.Data.CSV == "" {
		return nil, fmt.Errorf("data.csv is required")
	}
	if cfg.Artifacts.Dir == "" {
		return nil, fmt.Errorf("artifacts.dir is required")
	}
	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Training.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package metrics

import "fmt"

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

// Validate checks that enabled sinks are fully configured.
func (c Config) Validate() error {
	if !c.InfluxEnabled {
		return nil
	}
	switch {
	case c.InfluxURL == "":
		return fmt.Errorf("metrics: influx_url is required when influx is enabled")
	case c.InfluxToken == "":
		return fmt.Errorf("metrics: influx_token is required when influx is enabled")
	case c.InfluxOrg == "":
		return fmt.Errorf("metrics: influx_org is required when influx is enabled")
	case c.InfluxBucket == "":
		return fmt.Errorf("metrics: influx_bucket is required when influx is enabled")
	}
	return nil
}

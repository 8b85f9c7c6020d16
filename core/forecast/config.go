package forecast

import (
	"fmt"

	"github.com/sekka-mobility/forecast/core/feature"
)

// Trend extrapolation policies past the last changepoint.
const (
	TrendLinear = "linear"
	TrendFlat   = "flat"
)

// Config holds the model hyperparameters shared by trainer, forecaster and
// evaluator.
type Config struct {
	Orders feature.SeasonalOrders `json:"seasonal_orders"`
	// Changepoints is the number of candidate trend changepoints spread over
	// the first ChangepointRange fraction of the training window.
	Changepoints     int     `json:"changepoints"`
	ChangepointRange float64 `json:"changepoint_range"`
	// Prior scales translate to ridge penalties 1/scale^2; larger scale means
	// a more flexible component.
	ChangepointPriorScale float64 `json:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `json:"seasonality_prior_scale"`
	RegressorPriorScale   float64 `json:"regressor_prior_scale"`
	// ChangepointMinDelta zeroes changepoint slope deltas below this magnitude
	// in a second fit pass, keeping the trend sparse.
	ChangepointMinDelta float64 `json:"changepoint_min_delta"`
	// CoastalSummerFactor divides the summer-flag penalty for coastal routes,
	// letting the shared boolean carry more weight there.
	CoastalSummerFactor float64 `json:"coastal_summer_factor"`
	MinObservations     int     `json:"min_observations"`
	HoldoutDays         int     `json:"holdout_days"`
	MaxHorizonHours     int     `json:"max_horizon_hours"`
	// IntervalWidth is the nominal coverage of the uncertainty interval.
	IntervalWidth float64 `json:"interval_width"`
	// Calibration scales inference output to compensate peak under-prediction.
	Calibration        float64 `json:"calibration"`
	TrendExtrapolation string  `json:"trend_extrapolation"`
}

// SetDefaults applies the tuned production parameters.
func (c *Config) SetDefaults() {
	if c.Orders == (feature.SeasonalOrders{}) {
		c.Orders = feature.DefaultOrders()
	}
	if c.Changepoints == 0 {
		c.Changepoints = 25
	}
	if c.ChangepointRange == 0 {
		c.ChangepointRange = 0.8
	}
	if c.ChangepointPriorScale == 0 {
		c.ChangepointPriorScale = 0.5
	}
	if c.SeasonalityPriorScale == 0 {
		c.SeasonalityPriorScale = 10
	}
	if c.RegressorPriorScale == 0 {
		c.RegressorPriorScale = 10
	}
	if c.ChangepointMinDelta == 0 {
		c.ChangepointMinDelta = 0.01
	}
	if c.CoastalSummerFactor == 0 {
		c.CoastalSummerFactor = 2
	}
	if c.MinObservations == 0 {
		c.MinObservations = 30 * 24
	}
	if c.HoldoutDays == 0 {
		c.HoldoutDays = 30
	}
	if c.MaxHorizonHours == 0 {
		c.MaxHorizonHours = 7 * 24
	}
	if c.IntervalWidth == 0 {
		c.IntervalWidth = 0.8
	}
	if c.Calibration == 0 {
		c.Calibration = 1.25
	}
	if c.TrendExtrapolation == "" {
		c.TrendExtrapolation = TrendLinear
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Orders.Daily <= 0 || c.Orders.Weekly <= 0 || c.Orders.Yearly <= 0 {
		return fmt.Errorf("seasonal orders must be positive")
	}
	if c.Changepoints < 0 {
		return fmt.Errorf("changepoints must not be negative")
	}
	if c.ChangepointRange <= 0 || c.ChangepointRange > 1 {
		return fmt.Errorf("changepoint_range must be in (0,1]")
	}
	if c.IntervalWidth <= 0 || c.IntervalWidth >= 1 {
		return fmt.Errorf("interval_width must be in (0,1)")
	}
	if c.MaxHorizonHours <= 0 {
		return fmt.Errorf("max_horizon_hours must be positive")
	}
	if c.Calibration <= 0 {
		return fmt.Errorf("calibration must be positive")
	}
	if c.TrendExtrapolation != TrendLinear && c.TrendExtrapolation != TrendFlat {
		return fmt.Errorf("unknown trend_extrapolation %s", c.TrendExtrapolation)
	}
	return nil
}

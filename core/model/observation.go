package model

import "time"

// Observation is a single hourly congestion measurement for one route.
// Observations are immutable once ingested.
type Observation struct {
	Timestamp       time.Time `json:"timestamp"`
	RouteID         string    `json:"route_id"`
	CongestionLevel float64   `json:"congestion_level"`
}

// Route identifies a transportation line. ServiceType and Governorate are
// descriptive metadata; only the governorate feeds the calendar derivation.
type Route struct {
	ID          string `json:"route_id"`
	ServiceType string `json:"service_type"`
	Governorate string `json:"target_governorate"`
}

// ForecastPoint is one hourly step of a forecast. The interval always encloses
// the point estimate and all three values are clipped to the congestion scale.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
}

// EvaluationReport summarises holdout accuracy for one route. It is derived
// output, recomputed on every training run, never authoritative state.
type EvaluationReport struct {
	RouteID   string    `json:"route_id"`
	MAE       float64   `json:"mae"`
	RMSE      float64   `json:"rmse"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
	Start     time.Time `json:"evaluated_from"`
	End       time.Time `json:"evaluated_to"`
}

// Congestion scale bounds.
const (
	LevelMin = 0.0
	LevelMax = 10.0
)

// ClipLevel clamps a congestion score to the [LevelMin, LevelMax] scale.
func ClipLevel(v float64) float64 {
	if v < LevelMin {
		return LevelMin
	}
	if v > LevelMax {
		return LevelMax
	}
	return v
}

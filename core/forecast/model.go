package forecast

import (
	"time"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/model"
)

// Changepoint is a trend slope shift at a fraction Tau of the training window.
type Changepoint struct {
	Tau   float64 `json:"tau"`
	Delta float64 `json:"delta"`
}

// RouteModel is the trained additive decomposition for one route: trend,
// seasonal coefficients and regressor coefficients, plus the residual noise
// scale. It is exclusively owned by its route and replaced wholesale on
// retrain, never mutated in place.
type RouteModel struct {
	RouteID       string                 `json:"route_id"`
	SchemaVersion int                    `json:"feature_schema_version"`
	Orders        feature.SeasonalOrders `json:"seasonal_orders"`
	TrainStart    time.Time              `json:"train_start"`
	TrainEnd      time.Time              `json:"train_end"`
	Intercept     float64                `json:"intercept"`
	Slope         float64                `json:"slope"`
	Changepoints  []Changepoint          `json:"changepoints"`
	// Seasonal coefficients align with feature.SeasonalOrders.Harmonics
	// column order; Regressors with feature.Vector.Regressors.
	Seasonal   []float64 `json:"seasonal"`
	Regressors []float64 `json:"regressors"`
	Sigma      float64   `json:"sigma"`
	FitTime    time.Time `json:"fit_time"`
}

// Metadata is persisted next to the model and used to detect staleness and
// schema drift without deserializing the full coefficient set.
type Metadata struct {
	RouteID              string      `json:"route_id"`
	Route                model.Route `json:"route"`
	FitID                string      `json:"fit_id"`
	LastTrainedAt        time.Time   `json:"last_trained_at"`
	TrainingRows         int         `json:"training_row_count"`
	LastObservation      time.Time   `json:"last_observation"`
	FeatureSchemaVersion int         `json:"feature_schema_version"`
}

// Snapshot pairs a loaded model with its metadata; the unit cached by the
// registry. Read-only once published.
type Snapshot struct {
	Model *RouteModel
	Meta  *Metadata
}

// SpanHours is the training window length in hours.
func (m *RouteModel) SpanHours() float64 {
	h := m.TrainEnd.Sub(m.TrainStart).Hours()
	if h < 1 {
		return 1
	}
	return h
}

// tau maps a timestamp to the [0,1] trend coordinate of the training window.
// Values above 1 are future timestamps.
func (m *RouteModel) tau(t time.Time) float64 {
	return t.Sub(m.TrainStart).Hours() / m.SpanHours()
}

// TrendAt evaluates the piecewise-linear trend at t under the given
// extrapolation policy. Linear continues the last segment's slope; flat holds
// the end-of-window value constant.
func (m *RouteModel) TrendAt(t time.Time, policy string) float64 {
	x := m.tau(t)
	if policy == TrendFlat && x > 1 {
		x = 1
	}
	v := m.Intercept + m.Slope*x
	for _, cp := range m.Changepoints {
		if x > cp.Tau {
			v += cp.Delta * (x - cp.Tau)
		}
	}
	return v
}

// Evaluate returns the raw additive prediction at t: trend plus seasonal and
// regressor contributions. No calibration or clipping is applied here.
func (m *RouteModel) Evaluate(t time.Time, vec feature.Vector, policy string) float64 {
	y := m.TrendAt(t, policy)
	for i, h := range m.Orders.Harmonics(t) {
		y += m.Seasonal[i] * h
	}
	for i, r := range vec.Regressors() {
		y += m.Regressors[i] * r
	}
	return y
}

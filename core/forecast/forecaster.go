package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/logger"
	"github.com/sekka-mobility/forecast/core/model"
)

// ModelSource yields read-only model snapshots by route. Implemented by the
// registry; fakes inject directly in tests.
type ModelSource interface {
	Get(routeID string) (*Snapshot, error)
}

// Forecaster produces windowed forecasts with uncertainty bounds from
// persisted route models.
type Forecaster struct {
	source  ModelSource
	builder *feature.Builder
	cfg     Config
	log     logger.Logger
}

// NewForecaster creates a Forecaster over the given model source.
func NewForecaster(source ModelSource, builder *feature.Builder, cfg Config, log logger.Logger) *Forecaster {
	return &Forecaster{source: source, builder: builder, cfg: cfg, log: log}
}

// Predict forecasts hourly congestion for the route over the next hours steps.
// A zero anchor starts from the model's last training observation. The horizon
// is validated before any model load. Output is strictly hourly-increasing,
// and every point satisfies 0 <= lower <= yhat <= upper <= 10.
func (f *Forecaster) Predict(routeID string, anchor time.Time, hours int) ([]model.ForecastPoint, error) {
	if hours < 1 || hours > f.cfg.MaxHorizonHours {
		return nil, &InvalidHorizonError{Hours: hours, Max: f.cfg.MaxHorizonHours}
	}
	snap, err := f.source.Get(routeID)
	if err != nil {
		return nil, err
	}
	m, meta := snap.Model, snap.Meta
	if m.SchemaVersion != feature.SchemaVersion {
		return nil, &FeatureSchemaMismatchError{RouteID: routeID, Got: m.SchemaVersion, Want: feature.SchemaVersion}
	}

	if anchor.IsZero() {
		anchor = meta.LastObservation
	}
	anchor = anchor.Truncate(time.Hour)

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + f.cfg.IntervalWidth/2)
	span := m.SpanHours()
	cal := f.cfg.Calibration

	points := make([]model.ForecastPoint, hours)
	for i := 0; i < hours; i++ {
		t := anchor.Add(time.Duration(i+1) * time.Hour)
		vec := f.builder.Build(t, meta.Route)
		yhat := m.Evaluate(t, vec, f.cfg.TrendExtrapolation)

		// Interval first, clipping last: clipping yhat before deriving the
		// bounds would break interval enclosure.
		widen := 1.0
		if beyond := t.Sub(m.TrainEnd).Hours(); beyond > 0 {
			widen = math.Sqrt(1 + beyond/span)
		}
		half := z * m.Sigma * widen
		points[i] = model.ForecastPoint{
			Timestamp: t,
			Yhat:      model.ClipLevel(yhat * cal),
			YhatLower: model.ClipLevel((yhat - half) * cal),
			YhatUpper: model.ClipLevel((yhat + half) * cal),
		}
	}
	if f.log != nil {
		f.log.Debugw("forecast produced", map[string]any{
			"route_id": routeID,
			"hours":    hours,
			"from":     points[0].Timestamp,
		})
	}
	return points, nil
}

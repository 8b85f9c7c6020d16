// Package evaluate measures forecast accuracy on a held-out trailing window
// and drives the route-parallel training pipeline.
package evaluate

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sekka-mobility/forecast/core/forecast"
	"github.com/sekka-mobility/forecast/core/logger"
	"github.com/sekka-mobility/forecast/core/model"
	"github.com/sekka-mobility/forecast/core/series"
)

// Result is the outcome for one route in a batch run. Failures are isolated
// per route; they never abort siblings.
type Result struct {
	RouteID  string
	Report   model.EvaluationReport
	Duration time.Duration
	Err      error
}

// Evaluator fits a model on a training prefix and scores it on the trailing
// holdout window.
type Evaluator struct {
	cfg   forecast.Config
	store forecast.ArtifactStore
	log   logger.Logger
}

// New creates an Evaluator. store may be nil when fitted models must not be
// persisted (pure evaluation runs).
func New(cfg forecast.Config, store forecast.ArtifactStore, log logger.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, store: store, log: log}
}

// Evaluate splits the route's series into a training prefix and the trailing
// holdout window, fits on the prefix only, and reports MAE and RMSE over the
// holdout. With persist, the prefix-fit model is written as the serving
// artifact (the production pipeline always holds the last window out).
func (e *Evaluator) Evaluate(route model.Route, samples []forecast.Sample, persist bool) (model.EvaluationReport, error) {
	var report model.EvaluationReport
	if len(samples) == 0 {
		return report, &forecast.InsufficientDataError{RouteID: route.ID, Min: e.cfg.MinObservations}
	}
	sorted := make([]forecast.Sample, len(samples))
	copy(sorted, samples)
	forecast.SortSamples(sorted)

	cutoff := sorted[len(sorted)-1].Obs.Timestamp.Add(-time.Duration(e.cfg.HoldoutDays) * 24 * time.Hour)
	split := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Obs.Timestamp.Before(cutoff)
	})
	prefix, holdout := sorted[:split], sorted[split:]

	trainer := forecast.NewTrainer(e.cfg, nil, e.log)
	m, meta, err := trainer.Fit(route, prefix)
	if err != nil {
		return report, err
	}
	if persist && e.store != nil {
		// The serving metadata anchors default forecasts at the end of the
		// full series, past the holdout window, not at the training prefix.
		meta.LastObservation = sorted[len(sorted)-1].Obs.Timestamp
		if err := e.store.Save(m, meta); err != nil {
			return report, fmt.Errorf("route %s: persist artifact: %w", route.ID, err)
		}
	}

	// Forecaster-equivalent prediction over the holdout: clipped point
	// estimates, no calibration, matching how the training report is scored.
	var absSum, sqSum float64
	for _, s := range holdout {
		yhat := model.ClipLevel(m.Evaluate(s.Obs.Timestamp, s.Vec, e.cfg.TrendExtrapolation))
		diff := yhat - s.Obs.CongestionLevel
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	nTest := float64(len(holdout))
	report = model.EvaluationReport{
		RouteID:   route.ID,
		TrainRows: len(prefix),
		TestRows:  len(holdout),
	}
	if len(holdout) > 0 {
		report.MAE = absSum / nTest
		report.RMSE = math.Sqrt(sqSum / nTest)
		report.Start = holdout[0].Obs.Timestamp
		report.End = holdout[len(holdout)-1].Obs.Timestamp
	}
	return report, nil
}

// Run evaluates every route concurrently on a bounded worker pool. Routes
// share no mutable state; results come back sorted by route ID with per-route
// failures captured in place.
func (e *Evaluator) Run(routes map[string]*series.RouteSeries, workers int, persist bool) []Result {
	if workers < 1 {
		workers = 1
	}
	ids := make([]string, 0, len(routes))
	for id := range routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]Result, len(ids))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, rs *series.RouteSeries) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			started := time.Now()
			report, err := e.Evaluate(rs.Route, rs.Samples, persist)
			results[i] = Result{RouteID: rs.Route.ID, Report: report, Duration: time.Since(started), Err: err}
		}(i, routes[id])
	}
	wg.Wait()
	return results
}

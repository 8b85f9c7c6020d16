package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/logger"
	"github.com/sekka-mobility/forecast/core/model"
)

// Sample pairs an observation with its regressor vector. Externally supplied
// regressor columns take precedence over derived ones upstream, so by the time
// a sample reaches the trainer the vector is final.
type Sample struct {
	Obs model.Observation
	Vec feature.Vector
}

// SortSamples orders samples chronologically in place.
func SortSamples(samples []Sample) {
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Obs.Timestamp.Before(samples[j].Obs.Timestamp)
	})
}

// Trainer fits RouteModels by a single joint penalized least-squares pass over
// trend, seasonalities and regressors. With a non-nil store, fitted artifacts
// are persisted atomically.
type Trainer struct {
	cfg   Config
	store ArtifactStore
	log   logger.Logger
}

// NewTrainer creates a Trainer. store may be nil for fit-only use (holdout
// evaluation fits that must not overwrite the serving artifact).
func NewTrainer(cfg Config, store ArtifactStore, log logger.Logger) *Trainer {
	return &Trainer{cfg: cfg, store: store, log: log}
}

// Fit trains a model for the route over the given samples. Samples outside a
// valid congestion level are dropped before the minimum-rows check. Fails with
// *InsufficientDataError when too few hourly rows remain.
func (tr *Trainer) Fit(route model.Route, samples []Sample) (*RouteModel, *Metadata, error) {
	clean := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if math.IsNaN(s.Obs.CongestionLevel) || s.Obs.CongestionLevel < model.LevelMin || s.Obs.CongestionLevel > model.LevelMax {
			continue
		}
		clean = append(clean, s)
	}
	SortSamples(clean)
	n := len(clean)
	if n < tr.cfg.MinObservations {
		return nil, nil, &InsufficientDataError{RouteID: route.ID, Rows: n, Min: tr.cfg.MinObservations}
	}

	start := clean[0].Obs.Timestamp
	end := clean[n-1].Obs.Timestamp
	m := &RouteModel{
		RouteID:       route.ID,
		SchemaVersion: feature.SchemaVersion,
		Orders:        tr.cfg.Orders,
		TrainStart:    start,
		TrainEnd:      end,
		Changepoints:  candidateChangepoints(tr.cfg.Changepoints, tr.cfg.ChangepointRange),
		FitTime:       time.Now().UTC(),
	}

	nCp := len(m.Changepoints)
	seasTerms := tr.cfg.Orders.Terms()
	p := 2 + nCp + seasTerms + feature.RegressorCount

	X := mat.NewDense(n+p, p, nil)
	y := mat.NewVecDense(n+p, nil)
	for i, s := range clean {
		tau := m.tau(s.Obs.Timestamp)
		X.Set(i, 0, 1)
		X.Set(i, 1, tau)
		for j, cp := range m.Changepoints {
			if tau > cp.Tau {
				X.Set(i, 2+j, tau-cp.Tau)
			}
		}
		for j, h := range tr.cfg.Orders.Harmonics(s.Obs.Timestamp) {
			X.Set(i, 2+nCp+j, h)
		}
		for j, r := range s.Vec.Regressors() {
			X.Set(i, 2+nCp+seasTerms+j, r)
		}
		y.SetVec(i, s.Obs.CongestionLevel)
	}

	// Penalty rows below the data block turn the solve into ridge regression.
	lambda := tr.penalties(route, nCp, seasTerms, p)
	setPenaltyRows(X, lambda, n)

	var beta mat.VecDense
	if err := beta.SolveVec(X, y); err != nil {
		return nil, nil, fmt.Errorf("route %s: solve failed: %w", route.ID, err)
	}

	// Sparsity pass: changepoint deltas below the magnitude floor are pinned
	// to zero and the remaining coefficients refit once.
	dropped := 0
	for j := 0; j < nCp; j++ {
		if math.Abs(beta.AtVec(2+j)) < tr.cfg.ChangepointMinDelta {
			lambda[2+j] = 1e12
			dropped++
		}
	}
	if dropped > 0 && dropped < nCp {
		setPenaltyRows(X, lambda, n)
		if err := beta.SolveVec(X, y); err != nil {
			return nil, nil, fmt.Errorf("route %s: refit failed: %w", route.ID, err)
		}
	}

	m.Intercept = beta.AtVec(0)
	m.Slope = beta.AtVec(1)
	kept := m.Changepoints[:0]
	for j, cp := range m.Changepoints {
		delta := beta.AtVec(2 + j)
		if math.Abs(delta) < tr.cfg.ChangepointMinDelta {
			continue
		}
		cp.Delta = delta
		kept = append(kept, cp)
	}
	m.Changepoints = kept
	m.Seasonal = make([]float64, seasTerms)
	for j := range m.Seasonal {
		m.Seasonal[j] = beta.AtVec(2 + nCp + j)
	}
	m.Regressors = make([]float64, feature.RegressorCount)
	for j := range m.Regressors {
		m.Regressors[j] = beta.AtVec(2 + nCp + seasTerms + j)
	}

	residuals := make([]float64, n)
	for i, s := range clean {
		residuals[i] = s.Obs.CongestionLevel - m.Evaluate(s.Obs.Timestamp, s.Vec, TrendLinear)
	}
	m.Sigma = stat.StdDev(residuals, nil)
	if math.IsNaN(m.Sigma) {
		m.Sigma = 0
	}

	meta := &Metadata{
		RouteID:              route.ID,
		Route:                route,
		FitID:                uuid.NewString(),
		LastTrainedAt:        m.FitTime,
		TrainingRows:         n,
		LastObservation:      end,
		FeatureSchemaVersion: feature.SchemaVersion,
	}

	if tr.store != nil {
		if err := tr.store.Save(m, meta); err != nil {
			return nil, nil, fmt.Errorf("route %s: persist artifact: %w", route.ID, err)
		}
	}
	if tr.log != nil {
		tr.log.Infof("fitted route %s: %d rows, %d changepoints kept, sigma=%.3f", route.ID, n, len(m.Changepoints), m.Sigma)
	}
	return m, meta, nil
}

// candidateChangepoints spreads candidates uniformly over the first
// rangeFrac of the training window, deltas initially zero.
func candidateChangepoints(count int, rangeFrac float64) []Changepoint {
	cps := make([]Changepoint, count)
	for j := 0; j < count; j++ {
		cps[j] = Changepoint{Tau: rangeFrac * float64(j+1) / float64(count+1)}
	}
	return cps
}

// penalties builds the per-column ridge weights. Prior scales follow the
// 1/scale^2 convention; the summer column is relaxed for coastal routes so the
// shared flag carries more weight there.
func (tr *Trainer) penalties(route model.Route, nCp, seasTerms, p int) []float64 {
	lambda := make([]float64, p)
	lambda[0] = 1e-4
	lambda[1] = 1e-4
	cpPen := 1 / (tr.cfg.ChangepointPriorScale * tr.cfg.ChangepointPriorScale)
	for j := 0; j < nCp; j++ {
		lambda[2+j] = cpPen
	}
	seasPen := 1 / (tr.cfg.SeasonalityPriorScale * tr.cfg.SeasonalityPriorScale)
	for j := 0; j < seasTerms; j++ {
		lambda[2+nCp+j] = seasPen
	}
	regPen := 1 / (tr.cfg.RegressorPriorScale * tr.cfg.RegressorPriorScale)
	for j := 0; j < feature.RegressorCount; j++ {
		lambda[2+nCp+seasTerms+j] = regPen
	}
	if feature.IsCoastal(route.Governorate) {
		lambda[2+nCp+seasTerms+1] = regPen / tr.cfg.CoastalSummerFactor
	}
	return lambda
}

func setPenaltyRows(X *mat.Dense, lambda []float64, n int) {
	for j, l := range lambda {
		X.Set(n+j, j, math.Sqrt(l))
	}
}

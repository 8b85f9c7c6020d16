package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/sekka-mobility/forecast/core/metrics"
)

// PromSink records training runs and forecast requests in Prometheus metrics.
type PromSink struct {
	trainingRuns     *prometheus.CounterVec
	trainingDuration prometheus.Histogram
	trainingMAE      prometheus.Histogram
	forecasts        *prometheus.CounterVec
	forecastLatency  prometheus.Histogram
}

// NewPromSink registers the engine metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the collectors
// are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		trainingRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "congestion_training_runs_total",
			Help: "Total number of per-route training runs",
		}, []string{"route_id", "failed"}),
		trainingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "congestion_training_duration_seconds",
			Help:    "Wall time of one route's training run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		trainingMAE: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "congestion_training_holdout_mae",
			Help:    "Holdout mean absolute error per training run",
			Buckets: prometheus.LinearBuckets(0, 0.5, 10),
		}),
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "congestion_forecast_requests_total",
			Help: "Total number of served forecasts",
		}, []string{"route_id"}),
		forecastLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "congestion_forecast_latency_seconds",
			Help:    "Time to produce one forecast window",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		s.trainingRuns, s.trainingDuration, s.trainingMAE, s.forecasts, s.forecastLatency,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.trainingRuns = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				s.trainingDuration = are.ExistingCollector.(prometheus.Histogram)
			case 2:
				s.trainingMAE = are.ExistingCollector.(prometheus.Histogram)
			case 3:
				s.forecasts = are.ExistingCollector.(*prometheus.CounterVec)
			case 4:
				s.forecastLatency = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return s, nil
}

// RecordTrainingResults increments counters and observes durations for each run.
func (s *PromSink) RecordTrainingResults(results []coremetrics.TrainingResult) error {
	for _, r := range results {
		s.trainingRuns.WithLabelValues(r.RouteID, strconv.FormatBool(r.Failed)).Inc()
		s.trainingDuration.Observe(r.Duration.Seconds())
		if !r.Failed {
			s.trainingMAE.Observe(r.MAE)
		}
	}
	return nil
}

// RecordForecastRequest records one served forecast.
func (s *PromSink) RecordForecastRequest(req coremetrics.ForecastRequest) error {
	s.forecasts.WithLabelValues(req.RouteID).Inc()
	s.forecastLatency.Observe(req.Duration.Seconds())
	return nil
}

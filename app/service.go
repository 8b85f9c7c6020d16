// Package app wires the forecasting engine: artifact store, model registry,
// trainer pipeline, forecaster and metrics sinks.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sekka-mobility/forecast/config"
	"github.com/sekka-mobility/forecast/core/evaluate"
	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/forecast"
	coremetrics "github.com/sekka-mobility/forecast/core/metrics"
	"github.com/sekka-mobility/forecast/core/model"
	"github.com/sekka-mobility/forecast/core/registry"
	"github.com/sekka-mobility/forecast/core/series"
	"github.com/sekka-mobility/forecast/infra/logger"
	"github.com/sekka-mobility/forecast/infra/metrics"
	"github.com/sekka-mobility/forecast/infra/store"
	"github.com/sekka-mobility/forecast/pkg/export"
)

// Service owns the engine components for one process.
type Service struct {
	cfg        *config.Config
	log        logger.Logger
	store      *store.FileStore
	registry   *registry.Registry
	evaluator  *evaluate.Evaluator
	forecaster *forecast.Forecaster
	sink       coremetrics.Sink
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	artifacts, err := store.NewFileStore(cfg.Artifacts.Dir, logg)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	reg := registry.New(artifacts, logg)
	builder := feature.NewBuilder(cfg.Model.Orders)
	svc := &Service{
		cfg:        cfg,
		log:        logg,
		store:      artifacts,
		registry:   reg,
		evaluator:  evaluate.New(cfg.Model, artifacts, logg),
		forecaster: forecast.NewForecaster(reg, builder, cfg.Model, logg),
		sink:       sink,
	}
	return svc, nil
}

// ServeMetrics exposes the Prometheus endpoint until the context is canceled.
func (s *Service) ServeMetrics(ctx context.Context) error {
	if !s.cfg.Metrics.PrometheusEnabled {
		<-ctx.Done()
		return nil
	}
	return metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort, s.log)
}

// TrainAll runs the full batch pipeline: load the input series, train and
// evaluate every route on a bounded worker pool, persist artifacts, refresh
// the registry and write the training report. Per-route failures land in the
// report; they never abort the run.
func (s *Service) TrainAll(ctx context.Context) ([]evaluate.Result, error) {
	routes, err := series.Load(s.cfg.Data.CSV, s.log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	workers := s.cfg.Training.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	s.log.Infof("training %d routes with %d workers", len(routes), workers)

	results := s.evaluator.Run(routes, workers, true)

	trainingMetrics := make([]coremetrics.TrainingResult, 0, len(results))
	failures := 0
	for _, r := range results {
		tm := coremetrics.TrainingResult{
			RouteID:   r.RouteID,
			Duration:  r.Duration,
			TrainRows: r.Report.TrainRows,
			TestRows:  r.Report.TestRows,
			MAE:       r.Report.MAE,
			RMSE:      r.Report.RMSE,
		}
		if r.Err != nil {
			tm.Failed = true
			tm.Reason = r.Err.Error()
			failures++
			s.log.Warnf("route %s: training failed: %v", r.RouteID, r.Err)
		} else {
			s.registry.Invalidate(r.RouteID)
		}
		trainingMetrics = append(trainingMetrics, tm)
	}
	if err := s.sink.RecordTrainingResults(trainingMetrics); err != nil {
		s.log.Errorf("record training metrics: %v", err)
	}

	if err := s.writeReport(results); err != nil {
		return results, fmt.Errorf("write training report: %w", err)
	}
	s.log.Infof("training done: %d ok, %d failed", len(results)-failures, failures)
	return results, nil
}

// EvaluateAll scores every route on its holdout window without touching the
// persisted artifacts.
func (s *Service) EvaluateAll(ctx context.Context) ([]evaluate.Result, error) {
	routes, err := series.Load(s.cfg.Data.CSV, s.log)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workers := s.cfg.Training.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return s.evaluator.Run(routes, workers, false), nil
}

func (s *Service) writeReport(results []evaluate.Result) error {
	f, err := os.Create(s.cfg.Training.ReportPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return export.WriteCSV(f, results)
}

// Predict serves a forecast window for one route and records the request.
func (s *Service) Predict(routeID string, anchor time.Time, hours int) ([]model.ForecastPoint, error) {
	started := time.Now()
	points, err := s.forecaster.Predict(routeID, anchor, hours)
	if err != nil {
		return nil, err
	}
	if rerr := s.sink.RecordForecastRequest(coremetrics.ForecastRequest{
		RouteID:      routeID,
		HorizonHours: hours,
		Duration:     time.Since(started),
	}); rerr != nil {
		s.log.Errorf("record forecast metrics: %v", rerr)
	}
	return points, nil
}

// Close releases sink resources.
func (s *Service) Close() error {
	if c, ok := s.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

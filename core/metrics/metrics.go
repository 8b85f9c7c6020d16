// Package metrics defines the observability sink consumed by the training
// pipeline and forecaster. Sinks are pluggable; the core never talks to a
// metrics backend directly.
package metrics

import "time"

// TrainingResult represents one route's training run to be recorded.
type TrainingResult struct {
	RouteID   string
	Duration  time.Duration
	TrainRows int
	TestRows  int
	MAE       float64
	RMSE      float64
	Failed    bool
	Reason    string
}

// ForecastRequest represents a served forecast to be recorded.
type ForecastRequest struct {
	RouteID      string
	HorizonHours int
	Duration     time.Duration
}

// Sink records engine events for observability purposes.
type Sink interface {
	RecordTrainingResults(results []TrainingResult) error
	RecordForecastRequest(req ForecastRequest) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTrainingResults([]TrainingResult) error { return nil }
func (NopSink) RecordForecastRequest(ForecastRequest) error  { return nil }

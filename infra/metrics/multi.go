package metrics

import coremetrics "github.com/sekka-mobility/forecast/core/metrics"

// MultiSink fans engine events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTrainingResults forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTrainingResults(results []coremetrics.TrainingResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrainingResults(results); err != nil {
			return err
		}
	}
	return nil
}

// RecordForecastRequest forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordForecastRequest(req coremetrics.ForecastRequest) error {
	for _, s := range m.Sinks {
		if err := s.RecordForecastRequest(req); err != nil {
			return err
		}
	}
	return nil
}

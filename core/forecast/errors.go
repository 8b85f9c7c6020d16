package forecast

import "fmt"

// InsufficientDataError reports a training window with too few valid hourly
// observations to support the multi-seasonality decomposition. It is a
// per-route failure, never fatal to a batch run.
type InsufficientDataError struct {
	RouteID string
	Rows    int
	Min     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("route %s: %d hourly observations, need at least %d", e.RouteID, e.Rows, e.Min)
}

// UnknownRouteError reports a predict or evaluate call for a route with no
// persisted model. Retrying is pointless; the caller must train first.
type UnknownRouteError struct {
	RouteID string
}

func (e *UnknownRouteError) Error() string {
	return fmt.Sprintf("no trained model for route %s", e.RouteID)
}

// InvalidHorizonError reports a forecast horizon outside the supported range.
// Rejected before any model load.
type InvalidHorizonError struct {
	Hours int
	Max   int
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("horizon %d hours outside supported range [1,%d]", e.Hours, e.Max)
}

// FeatureSchemaMismatchError reports a persisted model trained under a
// different regressor derivation than the current one. Fatal for the route:
// it forces a retrain rather than silently skewing forecasts.
type FeatureSchemaMismatchError struct {
	RouteID string
	Got     int
	Want    int
}

func (e *FeatureSchemaMismatchError) Error() string {
	return fmt.Sprintf("route %s: model feature schema v%d, current v%d; retrain required", e.RouteID, e.Got, e.Want)
}

// ArtifactCorruptionError reports a partial or unreadable model artifact.
type ArtifactCorruptionError struct {
	RouteID string
	Err     error
}

func (e *ArtifactCorruptionError) Error() string {
	return fmt.Sprintf("corrupt artifact for route %s: %v", e.RouteID, e.Err)
}

func (e *ArtifactCorruptionError) Unwrap() error { return e.Err }

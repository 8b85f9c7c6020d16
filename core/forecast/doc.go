// Package forecast implements the per-route additive congestion model:
// piecewise-linear trend with sparse changepoints, Fourier seasonalities and
// calendar regressors, fit jointly by penalized least squares. One RouteModel
// exists per route and is replaced wholesale on retrain.
package forecast

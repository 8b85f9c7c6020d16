// Package feature derives per-timestamp regressors and seasonal basis terms
// for the congestion models. Everything here is a pure function of the
// timestamp and the route's governorate; calendar facts are bundled lookup
// tables, never resolved at runtime.
package feature

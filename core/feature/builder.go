package feature

import (
	"time"

	"github.com/sekka-mobility/forecast/core/model"
)

// SchemaVersion identifies the regressor derivation logic and basis column
// layout. Models persist the version they were trained under; a mismatch at
// load time forces a retrain instead of silently skewing forecasts.
const SchemaVersion = 1

// Vector holds the calendar regressors for one timestamp.
type Vector struct {
	IsPublicHoliday bool        `json:"is_public_holiday"`
	SchoolPhase     SchoolPhase `json:"school_term_phase"`
	IsSummerPeak    bool        `json:"is_summer_peak"`
}

// RegressorCount is the width of a regressor row: holiday, summer and the
// three-way school-phase one-hot.
const RegressorCount = 5

// Regressors expands the vector into design-matrix columns:
// [holiday, summer, term, exam, school-holiday].
func (v Vector) Regressors() []float64 {
	row := make([]float64, RegressorCount)
	if v.IsPublicHoliday {
		row[0] = 1
	}
	if v.IsSummerPeak {
		row[1] = 1
	}
	row[2+int(v.SchoolPhase)] = 1
	return row
}

// Builder derives regressor vectors for a route. It carries the seasonal
// orders so trainer and forecaster expand the exact same basis.
type Builder struct {
	Orders SeasonalOrders
}

// NewBuilder returns a Builder with the given harmonic orders.
func NewBuilder(orders SeasonalOrders) *Builder {
	return &Builder{Orders: orders}
}

// Build derives the regressor vector for a timestamp on the given route.
// Deterministic: same timestamp and governorate always yield the same vector.
func (b *Builder) Build(t time.Time, route model.Route) Vector {
	return Vector{
		IsPublicHoliday: IsPublicHoliday(t),
		SchoolPhase:     SchoolPhaseFor(t),
		IsSummerPeak:    IsSummerPeak(t, route.Governorate),
	}
}

// Harmonics expands the seasonal basis for a timestamp.
func (b *Builder) Harmonics(t time.Time) []float64 {
	return b.Orders.Harmonics(t)
}

package feature

import (
	"math"
	"time"
)

// Cycle periods in hours. The yearly period uses the Julian year so leap years
// do not drift the phase.
const (
	DailyPeriodHours  = 24.0
	WeeklyPeriodHours = 168.0
	YearlyPeriodHours = 365.25 * 24.0
)

// SeasonalOrders sets the harmonic order per cycle. The daily cycle needs a
// high order to capture the dual-peak commute shape; weekly and yearly cycles
// are smoother.
type SeasonalOrders struct {
	Daily  int `json:"daily"`
	Weekly int `json:"weekly"`
	Yearly int `json:"yearly"`
}

// DefaultOrders mirrors the tuned production orders.
func DefaultOrders() SeasonalOrders {
	return SeasonalOrders{Daily: 15, Weekly: 10, Yearly: 10}
}

// Terms returns the total number of basis columns the orders expand to.
func (o SeasonalOrders) Terms() int {
	return 2 * (o.Daily + o.Weekly + o.Yearly)
}

// Harmonics expands a timestamp into the periodic basis: sin/cos pairs at
// harmonic orders 1..N for each cycle, daily first, then weekly, then yearly.
// Column order is part of the feature schema and must not change without
// bumping SchemaVersion.
func (o SeasonalOrders) Harmonics(t time.Time) []float64 {
	out := make([]float64, 0, o.Terms())
	hours := float64(t.Unix()) / 3600.0
	out = appendCycle(out, hours, DailyPeriodHours, o.Daily)
	out = appendCycle(out, hours, WeeklyPeriodHours, o.Weekly)
	out = appendCycle(out, hours, YearlyPeriodHours, o.Yearly)
	return out
}

func appendCycle(dst []float64, hours, period float64, order int) []float64 {
	for n := 1; n <= order; n++ {
		x := 2 * math.Pi * float64(n) * hours / period
		dst = append(dst, math.Sin(x), math.Cos(x))
	}
	return dst
}

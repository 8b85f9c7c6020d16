package model

// Status is the discrete congestion band shown to riders.
type Status int

const (
	StatusClear Status = iota
	StatusModerate
	StatusHeavy
	StatusSevere
)

// String returns the display label for the band.
func (s Status) String() string {
	switch s {
	case StatusClear:
		return "Clear"
	case StatusModerate:
		return "Moderate"
	case StatusHeavy:
		return "Heavy"
	case StatusSevere:
		return "Severe"
	}
	return "Unknown"
}

// Classify maps a congestion score to a status band. Boundaries are inclusive
// on the lower edge: [0,3) Clear, [3,6) Moderate, [6,8) Heavy, [8,10] Severe.
// Out-of-range input is clamped, never rejected.
func Classify(level float64) Status {
	v := ClipLevel(level)
	switch {
	case v < 3:
		return StatusClear
	case v < 6:
		return StatusModerate
	case v < 8:
		return StatusHeavy
	}
	return StatusSevere
}

package feature

import "time"

// publicHolidays lists Egyptian national holidays for the operative years.
// Movable feasts (Islamic calendar, Sham El Nessim) are precomputed per year;
// they are government-defined dates, not derivable at runtime.
var publicHolidays = map[string]string{
	// 2023
	"2023-01-07": "Coptic Christmas",
	"2023-01-25": "Revolution Day / Police Day",
	"2023-04-17": "Sham El Nessim",
	"2023-04-21": "Eid al-Fitr",
	"2023-04-22": "Eid al-Fitr",
	"2023-04-23": "Eid al-Fitr",
	"2023-04-25": "Sinai Liberation Day",
	"2023-05-01": "Labour Day",
	"2023-06-27": "Arafat Day",
	"2023-06-28": "Eid al-Adha",
	"2023-06-29": "Eid al-Adha",
	"2023-06-30": "June 30 Revolution",
	"2023-07-19": "Islamic New Year",
	"2023-07-23": "Revolution Day",
	"2023-09-27": "Prophet's Birthday",
	"2023-10-06": "Armed Forces Day",
	// 2024
	"2024-01-07": "Coptic Christmas",
	"2024-01-25": "Revolution Day / Police Day",
	"2024-04-10": "Eid al-Fitr",
	"2024-04-11": "Eid al-Fitr",
	"2024-04-12": "Eid al-Fitr",
	"2024-04-25": "Sinai Liberation Day",
	"2024-05-01": "Labour Day",
	"2024-05-06": "Sham El Nessim",
	"2024-06-15": "Arafat Day",
	"2024-06-16": "Eid al-Adha",
	"2024-06-17": "Eid al-Adha",
	"2024-06-18": "Eid al-Adha",
	"2024-06-30": "June 30 Revolution",
	"2024-07-07": "Islamic New Year",
	"2024-07-23": "Revolution Day",
	"2024-09-15": "Prophet's Birthday",
	"2024-10-06": "Armed Forces Day",
	// 2025
	"2025-01-07": "Coptic Christmas",
	"2025-01-25": "Revolution Day / Police Day",
	"2025-03-30": "Eid al-Fitr",
	"2025-03-31": "Eid al-Fitr",
	"2025-04-01": "Eid al-Fitr",
	"2025-04-21": "Sham El Nessim",
	"2025-04-25": "Sinai Liberation Day",
	"2025-05-01": "Labour Day",
	"2025-06-05": "Arafat Day",
	"2025-06-06": "Eid al-Adha",
	"2025-06-07": "Eid al-Adha",
	"2025-06-08": "Eid al-Adha",
	"2025-06-26": "Islamic New Year",
	"2025-06-30": "June 30 Revolution",
	"2025-07-23": "Revolution Day",
	"2025-09-04": "Prophet's Birthday",
	"2025-10-06": "Armed Forces Day",
	// 2026
	"2026-01-07": "Coptic Christmas",
	"2026-01-25": "Revolution Day / Police Day",
	"2026-03-20": "Eid al-Fitr",
	"2026-03-21": "Eid al-Fitr",
	"2026-03-22": "Eid al-Fitr",
	"2026-04-13": "Sham El Nessim",
	"2026-04-25": "Sinai Liberation Day",
	"2026-05-01": "Labour Day",
	"2026-05-26": "Arafat Day",
	"2026-05-27": "Eid al-Adha",
	"2026-05-28": "Eid al-Adha",
	"2026-05-29": "Eid al-Adha",
	"2026-06-16": "Islamic New Year",
	"2026-06-30": "June 30 Revolution",
	"2026-07-23": "Revolution Day",
	"2026-08-25": "Prophet's Birthday",
	"2026-10-06": "Armed Forces Day",
}

// IsPublicHoliday reports whether the timestamp falls on a national holiday.
// Dates absent from the bundled table are not holidays.
func IsPublicHoliday(t time.Time) bool {
	_, ok := publicHolidays[t.Format("2006-01-02")]
	return ok
}

// SchoolPhase is the academic-calendar phase of a date. Phases are mutually
// exclusive and exhaustive for any date.
type SchoolPhase int

const (
	PhaseTerm SchoolPhase = iota
	PhaseExam
	PhaseHoliday
)

func (p SchoolPhase) String() string {
	switch p {
	case PhaseExam:
		return "Exam"
	case PhaseHoliday:
		return "Holiday"
	}
	return "Term"
}

// ParseSchoolPhase maps the input-series enum to a SchoolPhase. Unrecognised
// values fall back to Term, the dominant phase.
func ParseSchoolPhase(s string) SchoolPhase {
	switch s {
	case "Exam":
		return PhaseExam
	case "Holiday":
		return PhaseHoliday
	}
	return PhaseTerm
}

// SchoolPhaseFor derives the academic phase from the calendar month: national
// exam windows in January and June, recess July through September, term
// otherwise.
func SchoolPhaseFor(t time.Time) SchoolPhase {
	switch t.Month() {
	case time.January, time.June:
		return PhaseExam
	case time.July, time.August, time.September:
		return PhaseHoliday
	}
	return PhaseTerm
}

// coastalGovernorates mark routes whose summer demand window runs longer than
// inland routes.
var coastalGovernorates = map[string]bool{
	"Alexandria": true,
	"Damietta":   true,
}

// IsCoastal reports whether the governorate gets the extended summer window.
func IsCoastal(governorate string) bool {
	return coastalGovernorates[governorate]
}

// IsSummerPeak reports whether the timestamp falls in the summer travel peak.
// The base window is June through September; coastal governorates widen it to
// May through October.
func IsSummerPeak(t time.Time, governorate string) bool {
	m := t.Month()
	if m >= time.June && m <= time.September {
		return true
	}
	if IsCoastal(governorate) {
		return m == time.May || m == time.October
	}
	return false
}

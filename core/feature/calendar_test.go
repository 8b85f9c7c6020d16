package feature

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestIsPublicHoliday(t *testing.T) {
	// National holidays hold regardless of which route asks.
	if !IsPublicHoliday(date(2024, time.October, 6)) {
		t.Fatal("Armed Forces Day should be a holiday")
	}
	if !IsPublicHoliday(date(2025, time.January, 25)) {
		t.Fatal("Revolution Day should be a holiday")
	}
	if IsPublicHoliday(date(2024, time.March, 3)) {
		t.Fatal("ordinary date should not be a holiday")
	}
	// Dates outside the bundled table are not holidays.
	if IsPublicHoliday(date(2019, time.October, 6)) {
		t.Fatal("years outside the table must report false")
	}
}

func TestSchoolPhaseFor(t *testing.T) {
	cases := []struct {
		month time.Month
		want  SchoolPhase
	}{
		{time.January, PhaseExam},
		{time.June, PhaseExam},
		{time.July, PhaseHoliday},
		{time.September, PhaseHoliday},
		{time.October, PhaseTerm},
		{time.March, PhaseTerm},
	}
	for _, c := range cases {
		if got := SchoolPhaseFor(date(2024, c.month, 15)); got != c.want {
			t.Fatalf("phase for %v = %v, want %v", c.month, got, c.want)
		}
	}
}

func TestParseSchoolPhase(t *testing.T) {
	if ParseSchoolPhase("Exam") != PhaseExam {
		t.Fatal("Exam should parse")
	}
	if ParseSchoolPhase("Holiday") != PhaseHoliday {
		t.Fatal("Holiday should parse")
	}
	if ParseSchoolPhase("garbage") != PhaseTerm {
		t.Fatal("unknown value should fall back to Term")
	}
}

func TestIsSummerPeakCoastalWindow(t *testing.T) {
	may := date(2024, time.May, 20)
	october := date(2024, time.October, 20)
	july := date(2024, time.July, 20)

	if IsSummerPeak(may, "Cairo") {
		t.Fatal("May is not summer for inland routes")
	}
	if !IsSummerPeak(may, "Alexandria") {
		t.Fatal("May is summer for coastal routes")
	}
	if !IsSummerPeak(october, "Damietta") {
		t.Fatal("October is summer for coastal routes")
	}
	if !IsSummerPeak(july, "Cairo") || !IsSummerPeak(july, "Alexandria") {
		t.Fatal("July is summer everywhere")
	}
	if IsSummerPeak(date(2024, time.December, 1), "Alexandria") {
		t.Fatal("December is never summer")
	}
}

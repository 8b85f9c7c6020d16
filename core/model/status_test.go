package model

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		level float64
		want  Status
	}{
		{0, StatusClear},
		{2.999, StatusClear},
		{3.0, StatusModerate},
		{5.999, StatusModerate},
		{6.0, StatusHeavy},
		{7.999, StatusHeavy},
		{8.0, StatusSevere},
		{10.0, StatusSevere},
	}
	for _, c := range cases {
		if got := Classify(c.level); got != c.want {
			t.Fatalf("Classify(%v) = %v, want %v", c.level, got, c.want)
		}
	}
}

func TestClassifyClampsOutOfRange(t *testing.T) {
	if got := Classify(-5); got != StatusClear {
		t.Fatalf("Classify(-5) = %v, want Clear", got)
	}
	if got := Classify(42); got != StatusSevere {
		t.Fatalf("Classify(42) = %v, want Severe", got)
	}
}

func TestStatusString(t *testing.T) {
	want := map[Status]string{
		StatusClear:    "Clear",
		StatusModerate: "Moderate",
		StatusHeavy:    "Heavy",
		StatusSevere:   "Severe",
	}
	for s, label := range want {
		if s.String() != label {
			t.Fatalf("status %d String() = %s, want %s", s, s.String(), label)
		}
	}
}

func TestClipLevel(t *testing.T) {
	if ClipLevel(-0.1) != 0 {
		t.Fatal("expected clip to 0")
	}
	if ClipLevel(10.5) != 10 {
		t.Fatal("expected clip to 10")
	}
	if ClipLevel(4.2) != 4.2 {
		t.Fatal("expected passthrough")
	}
}

package forecast

import (
	"errors"
	"testing"
	"time"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/model"
)

type fakeSource struct {
	snap *Snapshot
	err  error
}

func (f fakeSource) Get(string) (*Snapshot, error) { return f.snap, f.err }

func fittedSnapshot(t *testing.T, cfg Config, route model.Route) *Snapshot {
	t.Helper()
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	samples := syntheticSamples(cfg, route, start, 90*24)
	m, meta, err := NewTrainer(cfg, nil, nil).Fit(route, samples)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	return &Snapshot{Model: m, Meta: meta}
}

func TestPredictWindowProperties(t *testing.T) {
	cfg := testConfig()
	route := model.Route{ID: "R-1005", Governorate: "Dakahlia"}
	snap := fittedSnapshot(t, cfg, route)
	f := NewForecaster(fakeSource{snap: snap}, feature.NewBuilder(cfg.Orders), cfg, nil)

	points, err := f.Predict("R-1005", time.Time{}, 24)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(points) != 24 {
		t.Fatalf("got %d points, want 24", len(points))
	}
	for i, p := range points {
		if p.YhatLower > p.Yhat || p.Yhat > p.YhatUpper {
			t.Fatalf("point %d: interval does not enclose yhat: %+v", i, p)
		}
		if p.YhatLower < model.LevelMin || p.YhatUpper > model.LevelMax {
			t.Fatalf("point %d outside congestion scale: %+v", i, p)
		}
		if i > 0 && p.Timestamp.Sub(points[i-1].Timestamp) != time.Hour {
			t.Fatalf("point %d not one hour after predecessor", i)
		}
	}
	// The default anchor is the last training observation.
	if !points[0].Timestamp.Equal(snap.Meta.LastObservation.Add(time.Hour)) {
		t.Fatalf("window starts at %v, want one hour past last observation", points[0].Timestamp)
	}
}

func TestPredictIdempotent(t *testing.T) {
	cfg := testConfig()
	route := model.Route{ID: "R-7", Governorate: "Alexandria"}
	snap := fittedSnapshot(t, cfg, route)
	f := NewForecaster(fakeSource{snap: snap}, feature.NewBuilder(cfg.Orders), cfg, nil)

	anchor := snap.Meta.LastObservation
	a, err := f.Predict("R-7", anchor, 48)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	b, err := f.Predict("R-7", anchor, 48)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical calls", i)
		}
	}
}

func TestPredictIntervalWidensWithHorizon(t *testing.T) {
	cfg := testConfig()
	route := model.Route{ID: "R-8", Governorate: "Giza"}
	snap := fittedSnapshot(t, cfg, route)
	f := NewForecaster(fakeSource{snap: snap}, feature.NewBuilder(cfg.Orders), cfg, nil)

	points, err := f.Predict("R-8", time.Time{}, cfg.MaxHorizonHours)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	prev := 0.0
	for i, p := range points {
		width := p.YhatUpper - p.YhatLower
		// Clipping can shrink the visible width, so only check unclipped points.
		if p.YhatLower > model.LevelMin && p.YhatUpper < model.LevelMax {
			if width < prev-1e-9 {
				t.Fatalf("interval width shrank at horizon %d: %v -> %v", i, prev, width)
			}
			prev = width
		}
	}
}

func TestPredictInvalidHorizon(t *testing.T) {
	cfg := testConfig()
	f := NewForecaster(fakeSource{}, feature.NewBuilder(cfg.Orders), cfg, nil)
	for _, hours := range []int{0, -3, cfg.MaxHorizonHours + 1} {
		_, err := f.Predict("R-1", time.Time{}, hours)
		var horizon *InvalidHorizonError
		if !errors.As(err, &horizon) {
			t.Fatalf("hours=%d: expected InvalidHorizonError, got %v", hours, err)
		}
	}
}

func TestPredictUnknownRoute(t *testing.T) {
	cfg := testConfig()
	src := fakeSource{err: &UnknownRouteError{RouteID: "R-9999"}}
	f := NewForecaster(src, feature.NewBuilder(cfg.Orders), cfg, nil)
	_, err := f.Predict("R-9999", time.Time{}, 24)
	var unknown *UnknownRouteError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRouteError, got %v", err)
	}
}

func TestPredictSchemaMismatch(t *testing.T) {
	cfg := testConfig()
	route := model.Route{ID: "R-10"}
	snap := fittedSnapshot(t, cfg, route)
	snap.Model.SchemaVersion = feature.SchemaVersion + 1
	f := NewForecaster(fakeSource{snap: snap}, feature.NewBuilder(cfg.Orders), cfg, nil)
	_, err := f.Predict("R-10", time.Time{}, 24)
	var mismatch *FeatureSchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected FeatureSchemaMismatchError, got %v", err)
	}
}

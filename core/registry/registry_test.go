package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/forecast"
)

type fakeLoader struct {
	calls int32
	delay time.Duration
	fail  func(call int32) error
}

func (l *fakeLoader) Load(routeID string) (*forecast.RouteModel, *forecast.Metadata, error) {
	call := atomic.AddInt32(&l.calls, 1)
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.fail != nil {
		if err := l.fail(call); err != nil {
			return nil, nil, err
		}
	}
	m := &forecast.RouteModel{RouteID: routeID, SchemaVersion: feature.SchemaVersion}
	meta := &forecast.Metadata{RouteID: routeID, FeatureSchemaVersion: feature.SchemaVersion}
	return m, meta, nil
}

func TestGetCachesAfterFirstLoad(t *testing.T) {
	loader := &fakeLoader{}
	r := New(loader, nil)
	a, err := r.Get("R-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, err := r.Get("R-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a != b {
		t.Fatal("expected the cached snapshot on the second get")
	}
	if n := atomic.LoadInt32(&loader.calls); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}
}

func TestConcurrentGetsDeduplicated(t *testing.T) {
	loader := &fakeLoader{delay: 20 * time.Millisecond}
	r := New(loader, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Get("R-1"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := atomic.LoadInt32(&loader.calls); n != 1 {
		t.Fatalf("loader called %d times under concurrent gets, want 1", n)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	loader := &fakeLoader{}
	r := New(loader, nil)
	if _, err := r.Get("R-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	r.Invalidate("R-1")
	if _, err := r.Get("R-1"); err != nil {
		t.Fatalf("get after invalidate: %v", err)
	}
	if n := atomic.LoadInt32(&loader.calls); n != 2 {
		t.Fatalf("loader called %d times, want 2", n)
	}
}

func TestCorruptArtifactRetriedOnce(t *testing.T) {
	loader := &fakeLoader{fail: func(call int32) error {
		if call == 1 {
			return &forecast.ArtifactCorruptionError{RouteID: "R-1", Err: errors.New("truncated")}
		}
		return nil
	}}
	r := New(loader, nil)
	if _, err := r.Get("R-1"); err != nil {
		t.Fatalf("get should recover after one retry: %v", err)
	}
	if n := atomic.LoadInt32(&loader.calls); n != 2 {
		t.Fatalf("loader called %d times, want 2", n)
	}
}

func TestCorruptArtifactSurfacedAfterRetry(t *testing.T) {
	loader := &fakeLoader{fail: func(int32) error {
		return &forecast.ArtifactCorruptionError{RouteID: "R-1", Err: errors.New("truncated")}
	}}
	r := New(loader, nil)
	_, err := r.Get("R-1")
	var corrupt *forecast.ArtifactCorruptionError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected ArtifactCorruptionError, got %v", err)
	}
	if n := atomic.LoadInt32(&loader.calls); n != 2 {
		t.Fatalf("loader called %d times, want 2", n)
	}
	// The failure must not be cached.
	loader.fail = nil
	if _, err := r.Get("R-1"); err != nil {
		t.Fatalf("get after failure: %v", err)
	}
}

func TestSchemaMismatchRejectedAtLoad(t *testing.T) {
	loader := &mismatchLoader{}
	r := New(loader, nil)
	_, err := r.Get("R-1")
	var mismatch *forecast.FeatureSchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected FeatureSchemaMismatchError, got %v", err)
	}
}

type mismatchLoader struct{}

func (mismatchLoader) Load(routeID string) (*forecast.RouteModel, *forecast.Metadata, error) {
	m := &forecast.RouteModel{RouteID: routeID, SchemaVersion: feature.SchemaVersion - 1}
	meta := &forecast.Metadata{RouteID: routeID, FeatureSchemaVersion: feature.SchemaVersion - 1}
	return m, meta, nil
}

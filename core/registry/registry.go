// Package registry caches loaded route models for the process lifetime.
// Lookups are concurrent, loads are de-duplicated per route and invalidation
// is atomic with respect to concurrent gets.
package registry

import (
	"errors"
	"sync"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/forecast"
	"github.com/sekka-mobility/forecast/core/logger"
)

// Loader fetches a persisted artifact on cache miss.
type Loader interface {
	Load(routeID string) (*forecast.RouteModel, *forecast.Metadata, error)
}

type inflightLoad struct {
	done chan struct{}
	snap *forecast.Snapshot
	err  error
}

// Registry maps route IDs to loaded model snapshots. Initialized empty and
// torn down with the process; only the underlying artifacts persist.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]*forecast.Snapshot
	inflight map[string]*inflightLoad
	loader   Loader
	log      logger.Logger
}

// New creates an empty registry backed by the loader.
func New(loader Loader, log logger.Logger) *Registry {
	return &Registry{
		entries:  map[string]*forecast.Snapshot{},
		inflight: map[string]*inflightLoad{},
		loader:   loader,
		log:      log,
	}
}

// Get returns the cached snapshot for the route, loading it on miss. At most
// one load per route runs at a time; concurrent callers wait for its result.
func (r *Registry) Get(routeID string) (*forecast.Snapshot, error) {
	r.mu.RLock()
	snap := r.entries[routeID]
	r.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	r.mu.Lock()
	if snap := r.entries[routeID]; snap != nil {
		r.mu.Unlock()
		return snap, nil
	}
	if fl := r.inflight[routeID]; fl != nil {
		r.mu.Unlock()
		<-fl.done
		return fl.snap, fl.err
	}
	fl := &inflightLoad{done: make(chan struct{})}
	r.inflight[routeID] = fl
	r.mu.Unlock()

	snap, err := r.load(routeID)

	r.mu.Lock()
	delete(r.inflight, routeID)
	if err == nil {
		r.entries[routeID] = snap
	}
	r.mu.Unlock()

	fl.snap, fl.err = snap, err
	close(fl.done)
	return snap, err
}

// load fetches the artifact, retrying once when the artifact reads as corrupt
// (a retrain may have just swapped the files). Schema drift is rejected here
// so a stale model can never serve a forecast.
func (r *Registry) load(routeID string) (*forecast.Snapshot, error) {
	m, meta, err := r.loader.Load(routeID)
	var corrupt *forecast.ArtifactCorruptionError
	if errors.As(err, &corrupt) {
		if r.log != nil {
			r.log.Warnf("route %s: corrupt artifact, retrying load once: %v", routeID, err)
		}
		m, meta, err = r.loader.Load(routeID)
	}
	if err != nil {
		return nil, err
	}
	if meta.FeatureSchemaVersion != feature.SchemaVersion {
		return nil, &forecast.FeatureSchemaMismatchError{
			RouteID: routeID,
			Got:     meta.FeatureSchemaVersion,
			Want:    feature.SchemaVersion,
		}
	}
	return &forecast.Snapshot{Model: m, Meta: meta}, nil
}

// Invalidate drops the cached entry so the next Get reloads the artifact.
// Called after a retrain. Concurrent gets see either the old complete snapshot
// or the reloaded one.
func (r *Registry) Invalidate(routeID string) {
	r.mu.Lock()
	delete(r.entries, routeID)
	r.mu.Unlock()
}

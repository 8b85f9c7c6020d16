// Package store persists model artifacts as per-route JSON files with
// write-to-temp-then-rename discipline, so a concurrent reader never observes
// a half-written model.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sekka-mobility/forecast/core/forecast"
	"github.com/sekka-mobility/forecast/core/logger"
)

// FileStore keeps one model and one metadata file per route under dir.
type FileStore struct {
	dir string
	log logger.Logger
}

// NewFileStore creates the artifact directory if needed.
func NewFileStore(dir string, log logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) modelPath(routeID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("model_route_%s.json", routeID))
}

func (s *FileStore) metaPath(routeID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("metadata_route_%s.json", routeID))
}

// Save atomically replaces the route's artifacts. Metadata is written after
// the model so a reader that sees the new metadata also sees the new model.
func (s *FileStore) Save(m *forecast.RouteModel, meta *forecast.Metadata) error {
	if err := s.writeAtomic(s.modelPath(m.RouteID), m); err != nil {
		return err
	}
	if err := s.writeAtomic(s.metaPath(m.RouteID), meta); err != nil {
		return err
	}
	if s.log != nil {
		s.log.Debugw("artifact saved", map[string]any{"route_id": m.RouteID, "fit_id": meta.FitID})
	}
	return nil
}

func (s *FileStore) writeAtomic(path string, v any) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	enc := json.NewEncoder(tmp)
	if err := enc.Encode(v); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Load reads the route's artifacts. Missing files map to *UnknownRouteError,
// unreadable content to *ArtifactCorruptionError.
func (s *FileStore) Load(routeID string) (*forecast.RouteModel, *forecast.Metadata, error) {
	var m forecast.RouteModel
	if err := s.readJSON(routeID, s.modelPath(routeID), &m); err != nil {
		return nil, nil, err
	}
	var meta forecast.Metadata
	if err := s.readJSON(routeID, s.metaPath(routeID), &meta); err != nil {
		return nil, nil, err
	}
	return &m, &meta, nil
}

func (s *FileStore) readJSON(routeID, path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &forecast.UnknownRouteError{RouteID: routeID}
		}
		return &forecast.ArtifactCorruptionError{RouteID: routeID, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &forecast.ArtifactCorruptionError{RouteID: routeID, Err: err}
	}
	return nil
}

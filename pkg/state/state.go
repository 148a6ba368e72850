package state

import (
	"encoding/json"
	"fmt"
	"os"

	errs "locpack/pkg/errors"
	"locpack/pkg/logger"
)

// stateFile mirrors the on-disk document: {"processed_locations": [...]}
type stateFile struct {
	ProcessedLocations []string `json:"processed_locations"`
}

// Store tracks which locations have been fully processed
type Store struct {
	path      string
	completed map[string]bool
	order     []string // persisted order, append-only
	logger    logger.Logger
}

// NewStore creates a progress store backed by the given file path.
// Call Load before any membership queries.
func NewStore(path string) *Store {
	return &Store{
		path:      path,
		completed: make(map[string]bool),
		logger:    logger.GetLogger(),
	}
}

// Load reads the backing file. A missing file means a fresh run and an
// empty set. An unparseable file is fatal: the store refuses to guess
// progress rather than risk re-processing completed locations.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField("path", s.path).Debug("no state file, starting fresh")
			return nil
		}
		return errs.Wrap(errs.ErrorTypeStateCorrupt, fmt.Sprintf("failed to read state file %s", s.path), err)
	}

	var doc stateFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return errs.Wrap(errs.ErrorTypeStateCorrupt, fmt.Sprintf("failed to parse state file %s", s.path), err)
	}

	for _, loc := range doc.ProcessedLocations {
		if !s.completed[loc] {
			s.completed[loc] = true
			s.order = append(s.order, loc)
		}
	}

	s.logger.WithField("completed", len(s.order)).Info("progress state loaded")
	return nil
}

// IsComplete checks if a location has already been fully processed
func (s *Store) IsComplete(location string) bool {
	return s.completed[location]
}

// Count returns the number of completed locations
func (s *Store) Count() int {
	return len(s.order)
}

// Completed returns the completed locations in persisted order
func (s *Store) Completed() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// RecordBatch unions the given locations into the completed set and
// rewrites the backing file atomically. Called once per batch, after
// every location in the batch has been attempted.
func (s *Store) RecordBatch(locations []string) error {
	for _, loc := range locations {
		if !s.completed[loc] {
			s.completed[loc] = true
			s.order = append(s.order, loc)
		}
	}
	return s.save()
}

// save writes the full state to a temporary file and renames it over
// the backing file.
func (s *Store) save() error {
	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary state file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(stateFile{ProcessedLocations: s.order}); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode state: %w", err)
	}

	// Ensure data is on disk before the rename
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync state file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	s.logger.DebugWithFields("progress state saved", map[string]interface{}{
		"path":      s.path,
		"completed": len(s.order),
	})

	return nil
}

package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	errs "locpack/pkg/errors"
)

func TestStore(t *testing.T) {
	t.Run("MissingFileIsFreshRun", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "state.json"))

		if err := store.Load(); err != nil {
			t.Fatalf("Missing state file should not be an error: %v", err)
		}
		if store.Count() != 0 {
			t.Errorf("Expected empty state, got %d entries", store.Count())
		}
		if store.IsComplete("London") {
			t.Error("Expected no location to be complete on a fresh run")
		}
	})

	t.Run("RecordBatchAndReload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		store := NewStore(path)
		if err := store.Load(); err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if err := store.RecordBatch([]string{"London", "Paris"}); err != nil {
			t.Fatalf("Failed to record batch: %v", err)
		}

		if !store.IsComplete("London") || !store.IsComplete("Paris") {
			t.Error("Expected recorded locations to be complete")
		}

		// A new store simulates a fresh process
		reloaded := NewStore(path)
		if err := reloaded.Load(); err != nil {
			t.Fatalf("Failed to reload: %v", err)
		}
		if !reloaded.IsComplete("London") || !reloaded.IsComplete("Paris") {
			t.Error("Expected completions to survive reload")
		}
		if reloaded.Count() != 2 {
			t.Errorf("Expected 2 completed locations, got %d", reloaded.Count())
		}
	})

	t.Run("MembershipIsMonotonic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		store := NewStore(path)
		if err := store.Load(); err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if err := store.RecordBatch([]string{"London"}); err != nil {
			t.Fatalf("Failed to record batch: %v", err)
		}
		// Recording the same location again must not duplicate it
		if err := store.RecordBatch([]string{"London", "Paris"}); err != nil {
			t.Fatalf("Failed to record batch: %v", err)
		}

		if store.Count() != 2 {
			t.Errorf("Expected 2 entries, got %d", store.Count())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read state file: %v", err)
		}
		var doc struct {
			ProcessedLocations []string `json:"processed_locations"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("Failed to parse state file: %v", err)
		}
		if len(doc.ProcessedLocations) != 2 {
			t.Errorf("Expected 2 persisted locations, got %v", doc.ProcessedLocations)
		}
	})

	t.Run("CorruptFileIsFatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatalf("Failed to write corrupt state: %v", err)
		}

		store := NewStore(path)
		err := store.Load()
		if err == nil {
			t.Fatal("Expected error for corrupt state file")
		}
		var typed *errs.Error
		if !errors.As(err, &typed) || typed.Type != errs.ErrorTypeStateCorrupt {
			t.Errorf("Expected state_corrupt error, got %v", err)
		}
	})

	t.Run("NoTempFileLeftBehind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "state.json")

		store := NewStore(path)
		if err := store.Load(); err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		if err := store.RecordBatch([]string{"London"}); err != nil {
			t.Fatalf("Failed to record batch: %v", err)
		}

		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Error("Expected temporary state file to be renamed away")
		}
	})

	t.Run("CompletedOrder", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")

		store := NewStore(path)
		if err := store.Load(); err != nil {
			t.Fatalf("Failed to load: %v", err)
		}
		store.RecordBatch([]string{"B"})
		store.RecordBatch([]string{"A"})

		completed := store.Completed()
		if len(completed) != 2 || completed[0] != "B" || completed[1] != "A" {
			t.Errorf("Expected [B A], got %v", completed)
		}
	})
}

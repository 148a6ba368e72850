package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	errs "locpack/pkg/errors"
)

func writeLocations(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write locations file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("ValidFile", func(t *testing.T) {
		path := writeLocations(t, `{"locations": ["London", "Paris", "Tokyo"]}`)

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Failed to load catalog: %v", err)
		}

		if cat.Count() != 3 {
			t.Errorf("Expected 3 locations, got %d", cat.Count())
		}
		if cat.At(0) != "London" {
			t.Errorf("Expected first location London, got %s", cat.At(0))
		}
		if cat.At(2) != "Tokyo" {
			t.Errorf("Expected last location Tokyo, got %s", cat.At(2))
		}
	})

	t.Run("PreservesOrder", func(t *testing.T) {
		path := writeLocations(t, `{"locations": ["Zagreb", "Athens", "Madrid"]}`)

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Failed to load catalog: %v", err)
		}

		all := cat.All()
		expected := []string{"Zagreb", "Athens", "Madrid"}
		for i, loc := range expected {
			if all[i] != loc {
				t.Errorf("Expected location %d to be %s, got %s", i, loc, all[i])
			}
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		if err == nil {
			t.Fatal("Expected error for missing file")
		}
		var typed *errs.Error
		if !errors.As(err, &typed) || typed.Type != errs.ErrorTypeConfig {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := writeLocations(t, `{"locations": [`)

		_, err := Load(path)
		if err == nil {
			t.Fatal("Expected error for malformed file")
		}
		var typed *errs.Error
		if !errors.As(err, &typed) || typed.Type != errs.ErrorTypeConfig {
			t.Errorf("Expected config error, got %v", err)
		}
	})

	t.Run("EmptyList", func(t *testing.T) {
		path := writeLocations(t, `{"locations": []}`)

		if _, err := Load(path); err == nil {
			t.Fatal("Expected error for empty location list")
		}
	})

	t.Run("EmptyLocationName", func(t *testing.T) {
		path := writeLocations(t, `{"locations": ["London", ""]}`)

		if _, err := Load(path); err == nil {
			t.Fatal("Expected error for empty location name")
		}
	})

	t.Run("DuplicatesFolded", func(t *testing.T) {
		path := writeLocations(t, `{"locations": ["London", "Paris", "London"]}`)

		cat, err := Load(path)
		if err != nil {
			t.Fatalf("Failed to load catalog: %v", err)
		}

		if cat.Count() != 2 {
			t.Errorf("Expected duplicates folded to 2 locations, got %d", cat.Count())
		}
		if cat.At(0) != "London" || cat.At(1) != "Paris" {
			t.Errorf("Expected [London Paris], got %v", cat.All())
		}
	})
}

func TestAllReturnsCopy(t *testing.T) {
	path := writeLocations(t, `{"locations": ["London", "Paris"]}`)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	all := cat.All()
	all[0] = "mutated"
	if cat.At(0) != "London" {
		t.Error("Mutating the returned slice should not affect the catalog")
	}
}

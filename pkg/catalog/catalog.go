// Package catalog loads the ordered list of location names that drives
// batch selection. The catalog is read once at startup and is read-only
// for the life of a run; its order defines batch membership.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	errs "locpack/pkg/errors"
	"locpack/pkg/logger"
)

// locationsFile mirrors the on-disk document: {"locations": [...]}
type locationsFile struct {
	Locations []string `json:"locations"`
}

// Catalog is the ordered, immutable sequence of location names
type Catalog struct {
	locations []string
}

// Load reads and validates the locations file. A missing or malformed
// file, or an empty list, is a config error and aborts the run.
// Duplicate entries are folded to their first occurrence with a warning,
// never processed twice.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, fmt.Sprintf("failed to read locations file %s", path), err)
	}

	var doc locationsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, fmt.Sprintf("failed to parse locations file %s", path), err)
	}

	if len(doc.Locations) == 0 {
		return nil, errs.New(errs.ErrorTypeConfig, fmt.Sprintf("locations file %s contains no locations", path))
	}

	log := logger.GetLogger()
	seen := make(map[string]bool, len(doc.Locations))
	locations := make([]string, 0, len(doc.Locations))
	for _, loc := range doc.Locations {
		if loc == "" {
			return nil, errs.New(errs.ErrorTypeConfig, fmt.Sprintf("locations file %s contains an empty location name", path))
		}
		if seen[loc] {
			log.WarnWithFields("duplicate location in catalog, keeping first occurrence", map[string]interface{}{
				"location": loc,
			})
			continue
		}
		seen[loc] = true
		locations = append(locations, loc)
	}

	return &Catalog{locations: locations}, nil
}

// Count returns the number of locations in the catalog
func (c *Catalog) Count() int {
	return len(c.locations)
}

// At returns the location at index i
func (c *Catalog) At(i int) string {
	return c.locations[i]
}

// All returns the locations in catalog order. The returned slice is a
// copy; the catalog itself never changes after Load.
func (c *Catalog) All() []string {
	out := make([]string, len(c.locations))
	copy(out, c.locations)
	return out
}

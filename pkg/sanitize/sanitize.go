// Package sanitize converts location names into filesystem-safe folder
// names. Sanitization must be deterministic: resumability and conflict
// detection both depend on the same location always mapping to the same
// folder name across runs.
package sanitize

import "strings"

// invalidChars are the characters not allowed in folder names on the
// supported platforms.
const invalidChars = `<>:"/\|?*`

// Name returns a filesystem-safe folder name for a location. Invalid
// and control characters are replaced with underscores and surrounding
// whitespace is trimmed. Never fails and never returns an empty string.
func Name(location string) string {
	trimmed := strings.TrimSpace(location)

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if r < 0x20 || strings.ContainsRune(invalidChars, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	out := b.String()
	if out == "" {
		return "_"
	}
	return out
}

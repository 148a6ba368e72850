package sanitize

import (
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "London", "London"},
		{"name with space", "New York", "New York"},
		{"slash replaced", "A/B", "A_B"},
		{"colon replaced", "Paris: France", "Paris_ France"},
		{"all invalid chars", `<>:"/\|?*`, "_________"},
		{"surrounding whitespace trimmed", "  Oslo  ", "Oslo"},
		{"control characters replaced", "Ber\tlin", "Ber_lin"},
		{"empty becomes underscore", "", "_"},
		{"whitespace only becomes underscore", "   ", "_"},
		{"unicode preserved", "Zürich", "Zürich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.expected {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNameDeterministic(t *testing.T) {
	inputs := []string{"New York", "A/B:C", "  spaced  ", "Zürich"}
	for _, input := range inputs {
		first := Name(input)
		for i := 0; i < 10; i++ {
			if got := Name(input); got != first {
				t.Fatalf("Name(%q) not deterministic: %q then %q", input, first, got)
			}
		}
	}
}

func TestNameNeverContainsInvalidChars(t *testing.T) {
	inputs := []string{"a/b", `c\d`, "e:f", "g*h?", "<i>|j", `"k"`}
	for _, input := range inputs {
		got := Name(input)
		if strings.ContainsAny(got, invalidChars) {
			t.Errorf("Name(%q) = %q still contains invalid characters", input, got)
		}
	}
}

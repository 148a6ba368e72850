package retry

import (
	"errors"
	"testing"
	"time"

	errs "locpack/pkg/errors"
)

func fastConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, fastConfig(3))

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestDoRetriesCopyErrors(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeCopy, "transient failure")
		}
		return nil
	}, fastConfig(5))

	if err != nil {
		t.Fatalf("Expected eventual success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeCopy, "always fails")
	}, fastConfig(3))

	if err == nil {
		t.Fatal("Expected failure after max attempts")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoDoesNotRetryConflicts(t *testing.T) {
	calls := 0
	conflict := errs.New(errs.ErrorTypeFolderConflict, "folder exists")
	err := Do(func() error {
		calls++
		return conflict
	}, fastConfig(5))

	if !errors.Is(err, conflict) {
		t.Fatalf("Expected the conflict back unchanged, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no retries for conflicts, got %d calls", calls)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"copy error", errs.New(errs.ErrorTypeCopy, "boom"), true},
		{"conflict error", errs.New(errs.ErrorTypeFolderConflict, "exists"), false},
		{"config error", errs.New(errs.ErrorTypeConfig, "bad"), false},
		{"untyped error", errors.New("plain"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryIf(tt.err); got != tt.expected {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExponentialBackoffGrowsAndCaps(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   40 * time.Millisecond,
		Multiplier: 2.0,
	}

	if eb.NextDelay(0) != 0 {
		t.Error("Expected zero delay for attempt 0")
	}
	if eb.NextDelay(1) != 10*time.Millisecond {
		t.Errorf("Expected 10ms for attempt 1, got %v", eb.NextDelay(1))
	}
	if eb.NextDelay(2) != 20*time.Millisecond {
		t.Errorf("Expected 20ms for attempt 2, got %v", eb.NextDelay(2))
	}
	if eb.NextDelay(10) != 40*time.Millisecond {
		t.Errorf("Expected cap at 40ms, got %v", eb.NextDelay(10))
	}
}

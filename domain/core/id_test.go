package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

// TestParseChartID tests chart ID parsing
func TestParseChartID(t *testing.T) {
	tests := []struct {
		input    string
		expected ChartID
		hasError bool
	}{
		{"gender_distribution", ChartID("gender_distribution"), false},
		{"  age_histogram ", ChartID("age_histogram"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		result, err := ParseChartID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseChartID(%q) expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseChartID(%q) unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseChartID(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

// TestComputeKeyedHash tests order independence and collision resistance
func TestComputeKeyedHash(t *testing.T) {
	a := ComputeKeyedHash(map[string][]string{"x": {"1"}, "y": {"2"}})
	b := ComputeKeyedHash(map[string][]string{"y": {"2"}, "x": {"1"}})
	if a != b {
		t.Errorf("hash depends on map order: %s vs %s", a, b)
	}

	c := ComputeKeyedHash(map[string][]string{"k": {"ab", "c"}})
	d := ComputeKeyedHash(map[string][]string{"k": {"a", "bc"}})
	if c == d {
		t.Error("length prefixing should separate adjacent parts")
	}

	empty := ComputeKeyedHash(map[string][]string{"k": {}})
	absent := ComputeKeyedHash(map[string][]string{})
	if empty == absent {
		t.Error("empty value list must differ from absent key")
	}

	if len(a.Short()) != 16 {
		t.Errorf("Short() length = %d, want 16", len(a.Short()))
	}
}

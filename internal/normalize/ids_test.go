package normalize

import (
	"math"
	"testing"

	"github.com/gyeh/notewizard/internal/model"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name  string
		raw   model.RawID
		index int
		want  int
	}{
		{"number", model.NumberID(42), 0, 42},
		{"fractional number truncates", model.NumberID(7.9), 3, 7},
		{"numeric string", model.TextID("17"), 0, 17},
		{"padded numeric string", model.TextID("  5 "), 0, 5},
		{"non-numeric string", model.TextID("abc-1"), 4, 5},
		{"empty string", model.TextID(""), 2, 3},
		{"absent", model.RawID{}, 0, 1},
		{"NaN", model.NumberID(math.NaN()), 1, 2},
		{"infinite", model.NumberID(math.Inf(1)), 9, 10},
		{"string infinity", model.TextID("Infinity"), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.raw, tt.index); got != tt.want {
				t.Errorf("NormalizeID = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	for _, s := range []string{"pending", "in-progress", "confirmed", "completed"} {
		if got := NormalizeStatus(s); string(got) != s {
			t.Errorf("NormalizeStatus(%q) = %q, want unchanged", s, got)
		}
	}
	for _, s := range []string{"", "Confirmed", "done", "in progress"} {
		if got := NormalizeStatus(s); got != model.StatusPending {
			t.Errorf("NormalizeStatus(%q) = %q, want pending", s, got)
		}
	}
}

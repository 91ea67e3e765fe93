package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "кафе", "кафе", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "", "кафе", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"common prefix", "abcd", "abxd", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	assert.InDelta(t, Ratio("картошка", "картофель"), Ratio("картофель", "картошка"), 1e-9)
}

func TestRatio_CloseMisspelling(t *testing.T) {
	// A single swapped rune keeps the ratio above the fuzzy cutoff.
	assert.GreaterOrEqual(t, Ratio("кофи", "кофе"), 0.7)
	assert.Less(t, Ratio("зарплата", "кофе"), 0.7)
}

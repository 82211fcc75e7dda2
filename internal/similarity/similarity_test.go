package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"Maersk Line", "Maersk Lines", 1},
		{"flaw", "lawn", 2},
		{"münchen", "munchen", 1}, // single rune substitution, not byte-wise
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "Distance(%q, %q)", tt.a, tt.b)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"", "abc", 0},
		{"abc", "", 0},
		{"same", "same", 1},
		{"abcd", "wxyz", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Score(tt.a, tt.b), 1e-9, "Score(%q, %q)", tt.a, tt.b)
	}
}

func TestScore_SingleInsertion(t *testing.T) {
	// One insertion over twelve runes.
	got := Score("Maersk Line", "Maersk Lines")
	assert.InDelta(t, 1-1.0/12, got, 1e-9)
	assert.GreaterOrEqual(t, got, 0.9)
}

func TestScore_Symmetric(t *testing.T) {
	assert.Equal(t, Score("ABC Logistics", "ABC Logistic"), Score("ABC Logistic", "ABC Logistics"))
}

func TestScore_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"DHL Express", "Totally Unrelated Co"},
		{"a", "aaaaaaaaaa"},
		{"Acme", "acme"},
	}
	for _, p := range pairs {
		s := Score(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

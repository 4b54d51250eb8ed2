package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"int", 3, 3, true},
		{"float rounds half away from zero", 2.5, 3, true},
		{"negative float", -2.5, -3, true},
		{"numeric string", " 12 ", 12, true},
		{"decimal string", "3.0", 3, true},
		{"json number", json.Number("7"), 7, true},
		{"exponent string", "1e3", 1000, true},
		{"empty string", "", 0, false},
		{"word", "many", 0, false},
		{"nil", nil, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"huge string", "1e30", 0, false},
		{"huge negative json number", json.Number("-1e30"), 0, false},
		{"huge float", 1e300, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

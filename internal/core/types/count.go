// Package types provides small value helpers shared by the domain packages.
package types

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	maxCount = decimal.NewFromInt(math.MaxInt)
	minCount = decimal.NewFromInt(math.MinInt)
)

// ParseCount converts a loosely-typed JSON value into an item count.
//
// Stored and imported payloads carry counts as JSON numbers, numeric
// strings ("12", "3.0") or, from older writers, floats. Non-integral values
// are rounded half away from zero. ok is false for anything non-numeric
// and for values outside the int range.
func ParseCount(v any) (int, bool) {
	var d decimal.Decimal
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		d = decimal.NewFromFloat(n)
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return 0, false
		}
		d = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return 0, false
		}
		d = parsed
	default:
		return 0, false
	}
	d = d.Round(0)
	if d.GreaterThan(maxCount) || d.LessThan(minCount) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// String coerces a loosely-typed JSON value into a trimmed string.
// Numbers are formatted without exponent; anything else yields "".
func String(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return decimal.NewFromFloat(s).String()
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

package util

import (
	"math"
	"strconv"
	"strings"
)

var placeholderStrings = map[string]struct{}{
	"":    {},
	"na":  {},
	"nan": {},
}

// ToFloat converts a loosely-typed alert value into a float.
// Accepts numbers and numeric strings (commas and whitespace tolerated);
// "na"/"nan"/empty and anything unparseable report !ok. Never panics.
func ToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return ToFloat(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.ToLower(strings.TrimSpace(n))
		if _, bad := placeholderStrings[s]; bad {
			return 0, false
		}
		s = strings.Map(func(r rune) rune {
			if r == ',' || r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToFloatPtr is ToFloat with a pointer result for optional model fields.
func ToFloatPtr(v interface{}) *float64 {
	f, ok := ToFloat(v)
	if !ok {
		return nil
	}
	return &f
}

package util

import (
	"fmt"
	"math"
	"strings"
)

// AbbreviateUSD renders a large monetary value with K/M/B/T suffixes,
// two decimals per tier, sign preserved.
func AbbreviateUSD(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%s%.2fT", sign, v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%s%.2fB", sign, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s%.2fM", sign, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s%.2fK", sign, v/1e3)
	default:
		return fmt.Sprintf("%s%.2f", sign, v)
	}
}

// FormatFixed renders v with the given number of decimals.
func FormatFixed(v float64, decimals int) string {
	return fmt.Sprintf("%.*f", decimals, v)
}

// RoundToTick rounds v to the nearest multiple of tick (half-up) and renders
// it without scientific notation or trailing zeros beyond the tick precision.
func RoundToTick(v, tick float64) string {
	if tick <= 0 {
		return FormatFixed(v, 8)
	}
	// epsilon keeps exact-half quotients from landing just under .5
	steps := math.Floor(v/tick + 0.5 + 1e-9)
	rounded := steps * tick
	decimals := tickDecimals(tick)
	return FormatFixed(rounded, decimals)
}

func tickDecimals(tick float64) int {
	// Enough decimals to represent the tick itself, capped to avoid
	// float artifacts on ticks like 0.0000001.
	s := strings.TrimRight(fmt.Sprintf("%.12f", tick), "0")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

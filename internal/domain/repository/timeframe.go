package repository

import "strings"

// DefaultTimeframe is the canonical 4-hour chart timeframe.
const DefaultTimeframe = "240"

var tfReplacer = strings.NewReplacer(
	"MINUTES", "M",
	"MINS", "M",
	"MIN", "M",
	"HOURS", "H",
	"HOUR", "H",
)

// NormalizeTimeframe canonicalizes a raw timeframe string: uppercased,
// word units collapsed to single letters, empty falls back to the default.
func NormalizeTimeframe(s string) string {
	tf := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "")
	tf = tfReplacer.Replace(tf)
	if tf == "" {
		return DefaultTimeframe
	}
	return tf
}

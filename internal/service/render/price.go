package render

import (
	"wingman/internal/domain/models"
	"wingman/pkg/util"
)

// Placeholder is rendered wherever a value is missing. Never "None",
// "null" or "nan".
const Placeholder = "—"

// defaultPriceDecimals keeps very low-priced assets distinguishable when no
// precision hint is present.
const defaultPriceDecimals = 8

// FormatPrice renders the alert price using the best available precision
// hint, in priority order: the source's preformatted string (assumed
// tick-accurate), an explicit decimal-precision hint, the tick size
// (round-half-up), then a high fixed precision. Failures fall through to the
// next tier; total failure renders the placeholder.
func FormatPrice(p *models.AlertPayload) string {
	if p.PriceStr != "" {
		return p.PriceStr
	}
	if p.Price == nil {
		return Placeholder
	}
	if p.PricePrecision != nil {
		return util.FormatFixed(*p.Price, *p.PricePrecision)
	}
	if p.TickSize != nil && *p.TickSize > 0 {
		return util.RoundToTick(*p.Price, *p.TickSize)
	}
	return util.FormatFixed(*p.Price, defaultPriceDecimals)
}

package render

import (
	"fmt"
	"strings"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	"wingman/pkg/util"
)

// Enrichment carries externally resolved values merged into the notification.
type Enrichment struct {
	Volume       *models.Volume
	VolumeSource string
	Dominance    *models.Dominance
}

// Message assembles the notification text for one alert. Pure formatting:
// missing values render as the placeholder glyph, the note line only appears
// when a note is present.
func Message(p *models.AlertPayload, e Enrichment) string {
	tf := domrepo.NormalizeTimeframe(p.Timeframe)
	symbol := p.Symbol
	if symbol == "" {
		symbol = "UNKNOWN"
	}

	var b strings.Builder
	b.WriteString("📡 TV Alert received\n")
	fmt.Fprintf(&b, "• %s (%s)\n", symbol, tf)
	fmt.Fprintf(&b, "• Price: %s", FormatPrice(p))
	if p.Change24h != nil {
		fmt.Fprintf(&b, " | 24h: %s%%", num(p.Change24h, 2))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "• 24h Vol: %s\n", volumeLine(e))
	fmt.Fprintf(&b, "• RSI: %s | ADX: %s (%s)\n", num(p.RSI, 2), num(p.ADX, 2), Trend(p.ADX, p.DIPlus, p.DIMinus))
	fmt.Fprintf(&b, "• EMA20: %s | EMA50: %s | EMA100: %s | EMA200: %s | SMA200: %s\n",
		num(p.EMA20, 4), num(p.EMA50, 4), num(p.EMA100, 4), num(p.EMA200, 4), num(p.SMA200, 4))
	fmt.Fprintf(&b, "• MACD: %s/%s/%s | ATR: %s\n",
		num(p.MACD, 6), num(p.MACDSig, 6), num(p.MACDHist, 6), num(p.ATR, 6))
	fmt.Fprintf(&b, "• BB: %s / %s (w %s) | OBV: %s\n",
		num(p.BBUpper, 4), num(p.BBLower, 4), num(p.BBWidth, 4), big(p.OBV))
	fmt.Fprintf(&b, "• Swing H/L: %s / %s\n", num(p.SwingHigh, 4), num(p.SwingLow, 4))
	fmt.Fprintf(&b, "• Dominance: BTC %s%% | ALT %s%%\n", dom(p.BTCDom, e, true), dom(p.AltDom, e, false))

	if note := strings.TrimSpace(p.Note); note != "" {
		fmt.Fprintf(&b, "• Note: %s\n", note)
	}

	fmt.Fprintf(&b, "\nTip: /analyze %s %s", symbol, tf)
	return b.String()
}

// Trend classifies trend strength from ADX with direction from +DI vs -DI.
func Trend(adx, diPlus, diMinus *float64) string {
	if adx == nil {
		return Placeholder
	}

	direction := ""
	if diPlus != nil && diMinus != nil {
		if *diPlus > *diMinus {
			direction = " Bullish"
		} else {
			direction = " Bearish"
		}
	}

	switch {
	case *adx >= 25:
		return "Strong" + direction
	case *adx >= 18:
		return "Mild" + direction
	default:
		return "Range/Weak"
	}
}

func volumeLine(e Enrichment) string {
	if e.Volume == nil {
		return fmt.Sprintf("%s (%s)", Placeholder, sourceOrUnavailable(e.VolumeSource))
	}
	return fmt.Sprintf("%s %s (%s)", util.AbbreviateUSD(e.Volume.Value), e.Volume.Units, sourceOrUnavailable(e.VolumeSource))
}

func sourceOrUnavailable(src string) string {
	if src == "" {
		return "unavailable"
	}
	return src
}

// dom prefers the alert-supplied dominance figure, then the enrichment one.
func dom(fromAlert *float64, e Enrichment, btc bool) string {
	if fromAlert != nil {
		return util.FormatFixed(*fromAlert, 2)
	}
	if e.Dominance != nil {
		if btc {
			return util.FormatFixed(e.Dominance.BTC, 2)
		}
		return util.FormatFixed(e.Dominance.Alt, 2)
	}
	return Placeholder
}

func num(v *float64, decimals int) string {
	if v == nil {
		return Placeholder
	}
	return util.FormatFixed(*v, decimals)
}

func big(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return util.AbbreviateUSD(*v)
}

package render

import (
	"strings"
	"testing"

	"wingman/internal/domain/models"
)

func fp(v float64) *float64 { return &v }

func TestFormatPricePreformattedWins(t *testing.T) {
	p := &models.AlertPayload{Price: fp(99.9), PriceStr: "0.0000123"}
	if got := FormatPrice(p); got != "0.0000123" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatPricePrecisionHint(t *testing.T) {
	prec := 3
	p := &models.AlertPayload{Price: fp(1.23456), PricePrecision: &prec}
	if got := FormatPrice(p); got != "1.235" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatPriceTickRounding(t *testing.T) {
	p := &models.AlertPayload{Price: fp(1.23456), TickSize: fp(0.01)}
	if got := FormatPrice(p); got != "1.23" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatPriceDefaultPrecision(t *testing.T) {
	p := &models.AlertPayload{Price: fp(0.00001234)}
	if got := FormatPrice(p); got != "0.00001234" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatPriceMissing(t *testing.T) {
	if got := FormatPrice(&models.AlertPayload{}); got != Placeholder {
		t.Fatalf("got %q", got)
	}
}

func TestTrendTiers(t *testing.T) {
	cases := []struct {
		adx, plus, minus float64
		want             string
	}{
		{30, 25, 10, "Strong Bullish"},
		{26, 10, 25, "Strong Bearish"},
		{20, 25, 10, "Mild Bullish"},
		{18, 10, 25, "Mild Bearish"},
		{10, 25, 10, "Range/Weak"},
	}
	for _, c := range cases {
		got := Trend(fp(c.adx), fp(c.plus), fp(c.minus))
		if got != c.want {
			t.Fatalf("Trend(%v,%v,%v) = %q, want %q", c.adx, c.plus, c.minus, got, c.want)
		}
	}
	if got := Trend(nil, fp(1), fp(2)); got != Placeholder {
		t.Fatalf("nil adx: %q", got)
	}
}

func TestMessageNeverEmitsLiteralNone(t *testing.T) {
	msg := Message(&models.AlertPayload{Symbol: "BTCUSDT", Timeframe: "240"}, Enrichment{})
	for _, bad := range []string{"None", "null", "nan", "<nil>"} {
		if strings.Contains(msg, bad) {
			t.Fatalf("message contains %q:\n%s", bad, msg)
		}
	}
	if !strings.Contains(msg, Placeholder) {
		t.Fatalf("expected placeholder glyph in message")
	}
}

func TestMessageFullFields(t *testing.T) {
	vol := models.Volume{Value: 1_234_000_000, Units: "USD"}
	p := &models.AlertPayload{
		Symbol:    "BINANCE:BTCUSDT",
		Timeframe: "240",
		Price:     fp(64250.5),
		PriceStr:  "64250.50",
		RSI:       fp(55.213),
		ADX:       fp(27.1),
		DIPlus:    fp(25),
		DIMinus:   fp(12),
		Note:      "breakout watch",
	}
	msg := Message(p, Enrichment{Volume: &vol, VolumeSource: "CoinGecko"})

	for _, want := range []string{
		"BINANCE:BTCUSDT (240)",
		"Price: 64250.50",
		"1.23B USD (CoinGecko)",
		"RSI: 55.21",
		"Strong Bullish",
		"Note: breakout watch",
		"/analyze BINANCE:BTCUSDT 240",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("missing %q in:\n%s", want, msg)
		}
	}
}

func TestMessageNoteOmittedWhenEmpty(t *testing.T) {
	msg := Message(&models.AlertPayload{Symbol: "X", Timeframe: "60"}, Enrichment{})
	if strings.Contains(msg, "Note:") {
		t.Fatalf("note line should be omitted:\n%s", msg)
	}
}

func TestMessageUnavailableVolume(t *testing.T) {
	msg := Message(&models.AlertPayload{Symbol: "X"}, Enrichment{VolumeSource: "unavailable"})
	if !strings.Contains(msg, "(unavailable)") {
		t.Fatalf("expected unavailable source label:\n%s", msg)
	}
}

package marketdata

import "testing"

func TestParseSymbolVenueQualified(t *testing.T) {
	got := ParseSymbol("BINANCE:BTCUSDT")
	if got.Venue != "BINANCE" || got.Base != "BTC" || got.Quote != "USDT" {
		t.Fatalf("unexpected parse: %+v", got)
	}
	if got.NormalizedPair != "BTCUSDT" {
		t.Fatalf("pair = %q", got.NormalizedPair)
	}
}

func TestParseSymbolPerpSuffix(t *testing.T) {
	got := ParseSymbol("SOLUSD.P")
	if got.Venue != "" {
		t.Fatalf("venue = %q", got.Venue)
	}
	if got.Base != "SOL" || got.Quote != "USD" {
		t.Fatalf("unexpected parse: %+v", got)
	}
}

func TestParseSymbolSeparators(t *testing.T) {
	got := ParseSymbol("KUCOIN:ETH-USDT")
	if got.Base != "ETH" || got.Quote != "USDT" || got.Venue != "KUCOIN" {
		t.Fatalf("unexpected parse: %+v", got)
	}
}

func TestParseSymbolLongestQuoteFirst(t *testing.T) {
	// USDT must win over USD
	got := ParseSymbol("PYTHUSDT")
	if got.Quote != "USDT" || got.Base != "PYTH" {
		t.Fatalf("unexpected parse: %+v", got)
	}
}

func TestParseSymbolUnknownQuote(t *testing.T) {
	got := ParseSymbol("BINANCE:SOMETHING")
	if got.Base != "" || got.Quote != "" {
		t.Fatalf("expected unresolved base/quote, got %+v", got)
	}
	if got.NormalizedPair != "SOMETHING" {
		t.Fatalf("pair = %q", got.NormalizedPair)
	}
}

func TestParseSymbolWholePairIsQuote(t *testing.T) {
	// the suffix must be strictly shorter than the pair
	got := ParseSymbol("USDT")
	if got.Base != "" || got.Quote != "" {
		t.Fatalf("expected unresolved, got %+v", got)
	}
}

func TestParseSymbolIdempotentOnNormalizedPair(t *testing.T) {
	first := ParseSymbol("BYBIT:PYTH/USDT.P")
	second := ParseSymbol(first.NormalizedPair)
	if second.Base != first.Base || second.Quote != first.Quote {
		t.Fatalf("not idempotent: %+v vs %+v", first, second)
	}
}

package marketdata

import (
	"strings"

	"wingman/internal/domain/models"
)

// quoteAssets is checked in order; longer, more specific suffixes come first
// so "BTCUSDT" resolves to USDT rather than USD.
var quoteAssets = []string{
	"USDT", "USDC", "FDUSD", "TUSD", "BUSD", "DAI",
	"USD", "EUR", "GBP", "TRY",
	"BTC", "ETH", "BNB", "SOL",
}

// ParseSymbol decomposes an exchange-qualified TradingView symbol
// ("BINANCE:BTCUSDT.P") into venue, base and quote. Pure: same input,
// same output.
func ParseSymbol(tvSymbol string) models.ResolvedSymbol {
	s := strings.ToUpper(strings.TrimSpace(tvSymbol))

	var venue, pair string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		venue = s[:i]
		pair = s[i+1:]
	} else {
		pair = s
	}

	// derivative-contract markers and separators
	pair = strings.TrimSuffix(pair, ".P")
	pair = strings.TrimSuffix(pair, "PERP")
	pair = strings.NewReplacer("-", "", "/", "", ".", "").Replace(pair)

	res := models.ResolvedSymbol{
		Venue:          venue,
		NormalizedPair: pair,
	}

	for _, q := range quoteAssets {
		if len(q) < len(pair) && strings.HasSuffix(pair, q) {
			res.Base = strings.TrimSuffix(pair, q)
			res.Quote = q
			break
		}
	}
	return res
}

package models

// ResolvedSymbol is the decomposed form of an exchange-qualified TradingView
// symbol such as "BINANCE:BTCUSDT". Empty Venue/Base/Quote mean unresolved.
type ResolvedSymbol struct {
	Venue          string
	Base           string
	Quote          string
	NormalizedPair string
}

// Volume is a resolved 24h traded volume with its quote units.
type Volume struct {
	Value float64
	Units string
}

// Dominance holds global market-share percentages.
type Dominance struct {
	BTC float64
	Alt float64
}

// ProcessResult reports the outcome of one webhook alert: Processed means
// the enrichment/formatting pipeline completed; Delivered means the
// notification reached the channel. Delivery is best-effort and does not
// gate the caller's success response.
type ProcessResult struct {
	Processed    bool   `json:"processed"`
	Delivered    bool   `json:"delivered"`
	VolumeSource string `json:"volume_source,omitempty"`
}

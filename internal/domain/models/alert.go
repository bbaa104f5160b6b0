package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wingman/pkg/util"
)

// AlertPayload is the typed form of one inbound TradingView alert. The wire
// format is schema-less, so every technical field is optional; absent or
// malformed values decode to nil and render as a placeholder downstream.
type AlertPayload struct {
	Secret    string
	Symbol    string
	Timeframe string

	Price          *float64
	PriceStr       string // preformatted by the alert source, authoritative
	TickSize       *float64
	PricePrecision *int

	Change24h *float64
	RSI       *float64
	EMA20     *float64
	EMA50     *float64
	EMA100    *float64
	EMA200    *float64
	SMA200    *float64
	MACD      *float64
	MACDSig   *float64
	MACDHist  *float64
	ADX       *float64
	DIPlus    *float64
	DIMinus   *float64
	BBUpper   *float64
	BBLower   *float64
	BBWidth   *float64
	ATR       *float64
	OBV       *float64
	SwingHigh *float64
	SwingLow  *float64
	BTCDom    *float64
	AltDom    *float64

	VolumeQuote24h *float64
	VolumeBase24h  *float64
	Volume         *float64

	Note string

	ReceivedAt time.Time
}

// ParseAlertBody decodes the raw webhook body into a loose map. On a parse
// failure it retries once after cutting the body at the last '}' — upstream
// occasionally truncates trailing bytes.
func ParseAlertBody(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err == nil {
		return raw, nil
	}

	if i := bytes.LastIndexByte(body, '}'); i >= 0 {
		if err := json.Unmarshal(body[:i+1], &raw); err == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("invalid json body")
}

// DecodeAlert converts the loose payload map into the typed AlertPayload.
// Key aliases from older alert templates are honoured (first present wins).
func DecodeAlert(raw map[string]interface{}) *AlertPayload {
	p := &AlertPayload{
		Secret:     stringField(raw, "secret"),
		Symbol:     strings.ToUpper(strings.TrimSpace(stringField(raw, "symbol", "ticker"))),
		Timeframe:  stringField(raw, "timeframe", "signal_tf", "tf"),
		PriceStr:   stringField(raw, "price_str", "price_fmt"),
		Note:       stringField(raw, "note", "comment"),
		ReceivedAt: time.Now().UTC(),
	}

	p.Price = floatField(raw, "price", "close")
	p.TickSize = floatField(raw, "tick_size", "mintick")
	if prec := floatField(raw, "price_precision", "precision"); prec != nil && *prec >= 0 && *prec <= 12 {
		n := int(*prec)
		p.PricePrecision = &n
	}

	p.Change24h = floatField(raw, "change_24h")
	p.RSI = floatField(raw, "rsi")
	p.EMA20 = floatField(raw, "ema20", "ema_fast")
	p.EMA50 = floatField(raw, "ema50", "ema_slow")
	p.EMA100 = floatField(raw, "ema100")
	p.EMA200 = floatField(raw, "ema200")
	p.SMA200 = floatField(raw, "sma200")
	p.MACD = floatField(raw, "macd")
	p.MACDSig = floatField(raw, "macd_signal")
	p.MACDHist = floatField(raw, "macd_hist")
	p.ADX = floatField(raw, "adx")
	p.DIPlus = floatField(raw, "di_plus")
	p.DIMinus = floatField(raw, "di_minus")
	p.BBUpper = floatField(raw, "bb_upper")
	p.BBLower = floatField(raw, "bb_lower")
	p.BBWidth = floatField(raw, "bb_width")
	p.ATR = floatField(raw, "atr")
	p.OBV = floatField(raw, "obv")
	p.SwingHigh = floatField(raw, "swing_high", "swing_high_dated", "swing_high_merged")
	p.SwingLow = floatField(raw, "swing_low", "swing_low_dated", "swing_low_merged")
	p.BTCDom = floatField(raw, "btc_dom")
	p.AltDom = floatField(raw, "alt_dom")

	p.VolumeQuote24h = floatField(raw, "vol_quote_24h", "close_vol_quote", "volume_quote")
	p.VolumeBase24h = floatField(raw, "vol_base_24h", "close_vol_base", "volume_base")
	p.Volume = floatField(raw, "volume", "vol")

	return p
}

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				return s
			}
			continue
		}
		// numeric timeframe etc.
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
	return ""
}

func floatField(raw map[string]interface{}, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if f := util.ToFloatPtr(v); f != nil {
			return f
		}
	}
	return nil
}

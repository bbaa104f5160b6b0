package openai

import (
	"context"
	"fmt"
	"strings"

	"wingman/internal/domain/models"
	domrepo "wingman/internal/domain/repository"
	httpclient "wingman/pkg/http"
	"wingman/pkg/util"
)

const systemPrompt = "You are Wingman, a precise, risk-aware crypto TA analyst. Be concise and actionable."

// Client calls the chat-completions API to turn cached technicals into a
// trade plan. It implements the TradePlanner port.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	http        *httpclient.Client
}

func NewClient(apiKey, model, baseURL string, temperature float64, hc *httpclient.Client) *Client {
	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		http:        hc,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Plan asks the model for an entry/stop/target plan built from the cached
// alert's technicals.
func (c *Client) Plan(ctx context.Context, payload *models.AlertPayload) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai api key missing")
	}

	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(payload)},
		},
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := c.http.PostJSON(ctx, c.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("chat completion rejected: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(p *models.AlertPayload) string {
	var b strings.Builder
	b.WriteString("Analyze the following technicals and provide a concise, high-conviction plan.\n\n")
	fmt.Fprintf(&b, "Symbol: %s\n", p.Symbol)
	fmt.Fprintf(&b, "Timeframe: %s\n", domrepo.NormalizeTimeframe(p.Timeframe))
	fmt.Fprintf(&b, "Price: %s\n", promptNum(p.Price))
	fmt.Fprintf(&b, "RSI: %s\n", promptNum(p.RSI))
	fmt.Fprintf(&b, "EMA20: %s | EMA50: %s | EMA200: %s\n", promptNum(p.EMA20), promptNum(p.EMA50), promptNum(p.EMA200))
	fmt.Fprintf(&b, "ADX: %s (+DI %s / -DI %s)\n", promptNum(p.ADX), promptNum(p.DIPlus), promptNum(p.DIMinus))
	fmt.Fprintf(&b, "MACD: %s / signal %s / hist %s\n", promptNum(p.MACD), promptNum(p.MACDSig), promptNum(p.MACDHist))
	fmt.Fprintf(&b, "ATR: %s\n", promptNum(p.ATR))
	b.WriteString(`
Return:
- Market structure & trend (bullish/bearish/range) + confidence (0-100%).
- Entry plan: immediate vs. pullback; give exact levels.
- Invalidation/stop-loss based on structure or ATR.
- TP ladder: 3-5 targets with reasoning.
- Risk notes: key risks and what invalidates the idea quickly.
Keep it tight with bullets; no fluff.
`)
	return b.String()
}

func promptNum(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return util.FormatFixed(*v, 6)
}

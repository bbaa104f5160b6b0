package models

// AnalyzeRequest asks for an LLM trade plan over the cached technicals.
type AnalyzeRequest struct {
	Symbol    string `json:"symbol" query:"symbol" validate:"omitempty,max=40"`
	Timeframe string `json:"timeframe" query:"timeframe" default:"" validate:"omitempty,max=16"`
}

// AnalyzeResponse carries the generated plan.
type AnalyzeResponse struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	Plan      string `json:"plan"`
}

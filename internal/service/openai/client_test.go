package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wingman/internal/domain/models"
	httpclient "wingman/pkg/http"
)

func fp(v float64) *float64 { return &v }

func TestPlanSendsTechnicalsAndReturnsText(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Long above 64300.  "}}]}`))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o-mini", srv.URL, 0.2, httpclient.NewClient())
	plan, err := c.Plan(context.Background(), &models.AlertPayload{
		Symbol:    "BINANCE:BTCUSDT",
		Timeframe: "240",
		Price:     fp(64250.5),
		RSI:       fp(55.2),
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan != "Long above 64300." {
		t.Fatalf("plan = %q", plan)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || gotReq.Temperature != 0.2 {
		t.Fatalf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	user := gotReq.Messages[1].Content
	for _, want := range []string{"BINANCE:BTCUSDT", "Timeframe: 240", "RSI: 55.2"} {
		if !strings.Contains(user, want) {
			t.Fatalf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestPlanSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk-bad", "gpt-4o-mini", srv.URL, 0.2, httpclient.NewClient())
	if _, err := c.Plan(context.Background(), &models.AlertPayload{Symbol: "X"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPlanRequiresAPIKey(t *testing.T) {
	c := NewClient("", "gpt-4o-mini", "http://unused", 0.2, httpclient.NewClient())
	if _, err := c.Plan(context.Background(), &models.AlertPayload{}); err == nil {
		t.Fatalf("expected error")
	}
}

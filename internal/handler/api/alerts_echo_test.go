package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"wingman/internal/domain/models"
	"wingman/internal/service/alertcache"
	"wingman/internal/service/marketdata"
	"wingman/internal/service/telegram"
	"wingman/internal/usecase"
	xhttp "wingman/pkg/http"
	xlogger "wingman/pkg/logger"

	"github.com/labstack/echo/v4"
)

type nopMetrics struct{}

func (nopMetrics) RecordAlert(string)                {}
func (nopMetrics) RecordProviderRequest(_, _ string) {}
func (nopMetrics) RecordVolumeCacheHit(string)       {}
func (nopMetrics) RecordNotifierChunk(string)        {}
func (nopMetrics) RecordLatency(string, float64)     {}

type fakeProvider struct {
	volume models.Volume
	ok     bool
}

func (f *fakeProvider) Name() string { return "CoinGecko" }

func (f *fakeProvider) FetchVolume(_ context.Context, _, _ string) (models.Volume, bool) {
	return f.volume, f.ok
}

type fakeDominance struct{}

func (fakeDominance) FetchGlobalDominance(_ context.Context) (models.Dominance, bool) {
	return models.Dominance{}, false
}

type fakePlanner struct {
	plan string
}

func (f *fakePlanner) Plan(_ context.Context, _ *models.AlertPayload) (string, error) {
	return f.plan, nil
}

type fakeInvalidator struct {
	got string
}

func (f *fakeInvalidator) InvalidateID(_ context.Context, base string) error {
	f.got = base
	return nil
}

// botAPIStub records sendMessage texts behind a Bot API shape.
type botAPIStub struct {
	mu    sync.Mutex
	texts []string
}

func (s *botAPIStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		s.texts = append(s.texts, req.Text)
		s.mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	})
}

func (s *botAPIStub) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

type fixture struct {
	echo  *echo.Echo
	cache *alertcache.Cache
	tg    *botAPIStub
	inval *fakeInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stub := &botAPIStub{}
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	logger := xlogger.Nop()
	notifier := telegram.NewClient("tok", 42,
		xhttp.NewClient(xhttp.WithTimeout(2*time.Second)),
		logger, nopMetrics{}, telegram.WithBaseURL(srv.URL))

	cache := alertcache.New()
	agg := &fakeProvider{volume: models.Volume{Value: 2e9, Units: "USD"}, ok: true}
	chain := usecase.NewVolumeChain(agg, marketdata.NewVenueRegistry(), logger)
	processor := usecase.NewAlertProcessor("s3cret", chain, fakeDominance{}, cache, notifier, nil, nopMetrics{}, logger)
	analyzer := usecase.NewAnalyzer(cache, &fakePlanner{plan: "Long the break."}, nopMetrics{}, logger)
	bot := usecase.NewBot(analyzer, notifier, logger)
	inval := &fakeInvalidator{}

	e := echo.New()
	NewAlertsEchoHandler(logger, processor, analyzer, bot, notifier, inval).RegisterRoutes(e)

	return &fixture{echo: e, cache: cache, tg: stub, inval: inval}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTVWebhookRejectsWrongSecret(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/tv", `{"secret":"wrong","symbol":"BTCUSDT"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if n := len(f.tg.sent()); n != 0 {
		t.Fatalf("notifier called %d times on rejected alert", n)
	}
}

func TestTVWebhookRejectsBadJSON(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/tv", `this is not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTVWebhookDeliversAlert(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/tv", `{"secret":"s3cret","symbol":"BINANCE:BTCUSDT","timeframe":"240","price":64250.5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data models.ProcessResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data.Processed || !resp.Data.Delivered {
		t.Fatalf("result = %+v", resp.Data)
	}
	if resp.Data.VolumeSource != "CoinGecko" {
		t.Fatalf("source = %q", resp.Data.VolumeSource)
	}

	sent := f.tg.sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages", len(sent))
	}
	if !strings.Contains(sent[0], "BINANCE:BTCUSDT") || !strings.Contains(sent[0], "📡 TV Alert received") {
		t.Fatalf("message = %q", sent[0])
	}
}

func TestTVTest(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/tv/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	sent := f.tg.sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "/tv/test reached OK") {
		t.Fatalf("sent = %v", sent)
	}
}

func TestTelegramWebhookRoutesCommand(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/webhook", `{"update_id":1,"message":{"message_id":1,"chat":{"id":99},"text":"/ping"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	sent := f.tg.sent()
	if len(sent) != 1 || sent[0] != "🏓 Pong!" {
		t.Fatalf("sent = %v", sent)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	f := newFixture(t)
	f.cache.Record(&models.AlertPayload{Symbol: "BTCUSDT", Timeframe: "240", RSI: floatPtr(55)})

	rec := f.do(http.MethodPost, "/api/analyze", `{"symbol":"BTCUSDT","timeframe":"240"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data models.AnalyzeResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Plan != "Long the break." {
		t.Fatalf("plan = %q", resp.Data.Plan)
	}
}

func TestAnalyzeEndpointNoData(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/analyze", `{"symbol":"NOPEUSDT"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInvalidateIDEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodDelete, "/api/cache/ids/PYTH", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.inval.got != "PYTH" {
		t.Fatalf("invalidated %q", f.inval.got)
	}
}

func floatPtr(v float64) *float64 { return &v }

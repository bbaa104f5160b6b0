package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpclient "wingman/pkg/http"
	applogger "wingman/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordAlert(string)              {}
func (nopMetrics) RecordProviderRequest(_, _ string) {}
func (nopMetrics) RecordVolumeCacheHit(string)     {}
func (nopMetrics) RecordNotifierChunk(string)      {}
func (nopMetrics) RecordLatency(string, float64)   {}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient("test-token", 42,
		httpclient.NewClient(httpclient.WithTimeout(2*time.Second)),
		applogger.Nop(), nopMetrics{}, WithBaseURL(baseURL))
}

func TestSplitChunksShortTextUntouched(t *testing.T) {
	got := SplitChunks("hello", 100)
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v", got)
	}
}

func TestSplitChunksPrefersLineBoundary(t *testing.T) {
	text := strings.Repeat("a", 50) + "\n" + strings.Repeat("b", 50)
	got := SplitChunks(text, 60)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != strings.Repeat("a", 50) {
		t.Fatalf("first chunk crossed line boundary: %q", got[0])
	}
	if got[1] != strings.Repeat("b", 50) {
		t.Fatalf("second chunk = %q", got[1])
	}
}

func TestSplitChunksHardSplitWithoutNewline(t *testing.T) {
	text := strings.Repeat("x", 130)
	got := SplitChunks(text, 60)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	for i, c := range got {
		if len(c) > 60 {
			t.Fatalf("chunk %d exceeds limit: %d", i, len(c))
		}
	}
	if strings.Join(got, "") != text {
		t.Fatalf("content lost during split")
	}
}

func TestSendDeliversToChat(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.ChatID != 42 || gotBody.Text != "hello" {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestSendChunksLongMessage(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		texts = append(texts, req.Text)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	long := strings.Repeat(strings.Repeat("line ", 100)+"\n", 20)
	c := newTestClient(t, srv.URL)
	if err := c.Send(context.Background(), long); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(texts) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(texts))
	}
	for i, tx := range texts {
		if len(tx) > chunkLimit {
			t.Fatalf("chunk %d exceeds limit: %d bytes", i, len(tx))
		}
	}
}

func TestSendContinuesAfterFailedChunk(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"ok":false,"description":"flood control"}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	long := strings.Repeat("a", chunkLimit) + "\n" + strings.Repeat("b", 100)
	c := newTestClient(t, srv.URL)
	err := c.Send(context.Background(), long)
	if err == nil {
		t.Fatalf("expected error from failed chunk")
	}
	if calls != 2 {
		t.Fatalf("expected both chunks attempted, got %d calls", calls)
	}
}

func TestSendRejectsMissingCredentials(t *testing.T) {
	c := NewClient("", 0, httpclient.NewClient(), applogger.Nop(), nopMetrics{})
	if err := c.Send(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPollerDispatchesMessages(t *testing.T) {
	var mu sync.Mutex
	var offsets []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		offsets = append(offsets, r.URL.Query().Get("offset"))
		first := len(offsets) == 1
		mu.Unlock()
		if first {
			w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"message_id":1,"chat":{"id":99},"text":"/ping"}}]}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer srv.Close()

	type dispatched struct {
		chatID int64
		text   string
	}
	got := make(chan dispatched, 1)
	handler := updateFunc(func(_ context.Context, chatID int64, text string) {
		got <- dispatched{chatID: chatID, text: text}
	})

	c := newTestClient(t, srv.URL)
	p := NewPoller(c, handler, applogger.Nop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case d := <-got:
		if d.chatID != 99 || d.text != "/ping" {
			t.Fatalf("dispatched = %+v", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no update dispatched")
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(offsets)
		mu.Unlock()
		if n >= 2 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(offsets) < 2 || offsets[1] != "8" {
		t.Fatalf("offset not advanced: %v", offsets)
	}
}

type updateFunc func(ctx context.Context, chatID int64, text string)

func (f updateFunc) HandleUpdate(ctx context.Context, chatID int64, text string) {
	f(ctx, chatID, text)
}

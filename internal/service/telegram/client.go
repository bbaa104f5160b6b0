package telegram

import (
	"context"
	"fmt"
	"strings"

	domrepo "wingman/internal/domain/repository"
	httpclient "wingman/pkg/http"
	applogger "wingman/pkg/logger"
)

// chunkLimit stays below Telegram's 4096-character message ceiling with
// enough margin for multi-byte glyphs.
const chunkLimit = 3900

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API and implements the Notifier port.
type Client struct {
	token   string
	chatID  int64
	baseURL string
	http    *httpclient.Client
	logger  *applogger.Logger
	metrics domrepo.Metrics
}

type Option func(*Client)

// WithBaseURL overrides the Bot API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func NewClient(token string, chatID int64, hc *httpclient.Client, l *applogger.Logger, m domrepo.Metrics, opts ...Option) *Client {
	c := &Client{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		http:    hc,
		logger:  l,
		metrics: m,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// Send delivers text to the configured chat, splitting it into chunks below
// the API limit. A failed chunk is logged and does not stop the remaining
// chunks; the last failure is returned.
func (c *Client) Send(ctx context.Context, text string) error {
	if c.token == "" || c.chatID == 0 {
		return fmt.Errorf("telegram token or chat_id missing")
	}

	var lastErr error
	for i, chunk := range SplitChunks(text, chunkLimit) {
		if err := c.sendChunk(ctx, c.chatID, chunk); err != nil {
			c.metrics.RecordNotifierChunk("error")
			c.logger.Error("telegram chunk delivery failed",
				applogger.Int("chunk", i),
				applogger.Error(err))
			lastErr = err
			continue
		}
		c.metrics.RecordNotifierChunk("ok")
	}
	return lastErr
}

// SendTo delivers text to an explicit chat, used for bot command replies.
func (c *Client) SendTo(ctx context.Context, chatID int64, text string) error {
	var lastErr error
	for i, chunk := range SplitChunks(text, chunkLimit) {
		if err := c.sendChunk(ctx, chatID, chunk); err != nil {
			c.metrics.RecordNotifierChunk("error")
			c.logger.Error("telegram chunk delivery failed",
				applogger.Int("chunk", i),
				applogger.Error(err))
			lastErr = err
		}
	}
	return lastErr
}

func (c *Client) sendChunk(ctx context.Context, chatID int64, text string) error {
	var resp apiResponse
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	if err := c.http.PostJSON(ctx, url, nil, sendMessageRequest{ChatID: chatID, Text: text}, &resp); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram sendMessage rejected: %s", resp.Description)
	}
	return nil
}

// SplitChunks splits text into pieces of at most limit bytes, preferring to
// break at the last newline inside the window so lines stay intact.
func SplitChunks(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

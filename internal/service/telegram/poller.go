package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	httpclient "wingman/pkg/http"
	applogger "wingman/pkg/logger"
)

// Update is one incoming Bot API update. Only message updates are consumed.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// DecodeUpdate parses a single webhook update body.
func DecodeUpdate(r io.Reader) (*Update, error) {
	var u Update
	if err := json.NewDecoder(r).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode telegram update: %w", err)
	}
	return &u, nil
}

// UpdateHandler consumes decoded bot messages.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, chatID int64, text string)
}

// Poller long-polls getUpdates and dispatches messages to a handler. It is
// the local-development alternative to a registered webhook.
type Poller struct {
	client      *Client
	handler     UpdateHandler
	logger      *applogger.Logger
	pollTimeout time.Duration
	offset      int64
}

func NewPoller(client *Client, handler UpdateHandler, l *applogger.Logger, pollTimeout time.Duration) *Poller {
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Poller{
		client:      client,
		handler:     handler,
		logger:      l,
		pollTimeout: pollTimeout,
	}
}

// Run polls until ctx is cancelled. Transport errors back off briefly and
// never terminate the loop.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("telegram poller started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("telegram poller stopped")
			return
		default:
		}

		updates, err := p.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("telegram getUpdates failed", applogger.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= p.offset {
				p.offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			p.handler.HandleUpdate(ctx, u.Message.Chat.ID, u.Message.Text)
		}
	}
}

type getUpdatesResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

func (p *Poller) fetch(ctx context.Context) ([]Update, error) {
	query := url.Values{}
	query.Set("timeout", strconv.Itoa(int(p.pollTimeout/time.Second)))
	if p.offset > 0 {
		query.Set("offset", strconv.FormatInt(p.offset, 10))
	}

	var resp getUpdatesResponse
	endpoint := fmt.Sprintf("%s/bot%s/getUpdates", p.client.baseURL, p.client.token)
	if err := p.client.http.SendAndParse(ctx, &httpclient.RequestOptions{
		Method:      "GET",
		URL:         endpoint,
		QueryParams: query,
	}, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("getUpdates rejected")
	}
	return resp.Result, nil
}

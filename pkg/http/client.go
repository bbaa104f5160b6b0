package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ClientOption configures Client.
type ClientOption func(*Client)

// RequestOptions holds HTTP request parameters.
type RequestOptions struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams url.Values
	Body        interface{}
}

// Client is a JSON-oriented HTTP client with a bounded per-request timeout.
type Client struct {
	timeout time.Duration
	client  *http.Client
}

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// SendRequest sends an HTTP request and returns the raw response.
func (c *Client) SendRequest(ctx context.Context, opts *RequestOptions) (*http.Response, error) {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// SendAndParse sends a request, requires a 2xx status, and decodes the JSON
// body into dest (skipped when dest is nil).
func (c *Client) SendAndParse(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	resp, err := c.SendRequest(ctx, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// GetJSON issues a GET with query parameters and decodes the JSON response.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, dest interface{}) error {
	return c.SendAndParse(ctx, &RequestOptions{
		Method:      http.MethodGet,
		URL:         rawURL,
		QueryParams: query,
	}, dest)
}

// PostJSON issues a POST with a JSON body and decodes the JSON response.
func (c *Client) PostJSON(ctx context.Context, rawURL string, headers map[string]string, body, dest interface{}) error {
	return c.SendAndParse(ctx, &RequestOptions{
		Method:  http.MethodPost,
		URL:     rawURL,
		Headers: headers,
		Body:    body,
	}, dest)
}

func (c *Client) buildRequest(ctx context.Context, opts *RequestOptions) (*http.Request, error) {
	u := opts.URL
	if len(opts.QueryParams) > 0 {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
		q := parsed.Query()
		for k, vs := range opts.QueryParams {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		parsed.RawQuery = q.Encode()
		u = parsed.String()
	}

	var body io.Reader
	if opts.Body != nil {
		switch b := opts.Body.(type) {
		case []byte:
			body = bytes.NewReader(b)
		case string:
			body = bytes.NewReader([]byte(b))
		default:
			buf, err := json.Marshal(b)
			if err != nil {
				return nil, fmt.Errorf("marshal body: %w", err)
			}
			body = bytes.NewReader(buf)
		}
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, u, body)
	if err != nil {
		return nil, err
	}

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

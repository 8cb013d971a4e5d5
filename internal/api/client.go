// Package api is the client for the auction REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:8080/api/v1"
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 64 << 10
)

// Logger provides minimal logging required by the client.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Client calls the auction backend. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     Logger
}

// NewClient constructs a client for baseURL. A nil httpClient gets a client
// with DefaultTimeout; tokens may be nil for anonymous use.
func NewClient(httpClient *http.Client, baseURL string, tokens TokenSource, logger Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *httpClient
	wrapped.Transport = &authTransport{tokens: tokens, base: base}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &wrapped,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

type call struct {
	op        string
	method    string
	path      string
	query     url.Values
	body      interface{}
	protected bool
	fallback  string
}

func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Kind: KindDecode, Op: cl.op, Message: cl.fallback, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: cl.op, Message: cl.fallback, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.errorf("%s: request failed: %v", cl.op, err)
		return &Error{Kind: KindTransport, Op: cl.op, Message: cl.fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.serverError(cl, resp)
	}

	switch v := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *string:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: cl.op, StatusCode: resp.StatusCode, Message: cl.fallback, Err: err}
		}
		*v = strings.TrimSpace(string(data))
		return nil
	default:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if err == io.EOF {
				return nil
			}
			c.errorf("%s: decode response: %v", cl.op, err)
			return &Error{Kind: KindDecode, Op: cl.op, StatusCode: resp.StatusCode, Message: cl.fallback, Err: err}
		}
		return nil
	}
}

func (c *Client) serverError(cl call, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &Error{
		Kind:       KindServer,
		Op:         cl.op,
		StatusCode: resp.StatusCode,
		Message:    cl.fallback,
		Err:        fmt.Errorf("%s: unexpected status %s", cl.op, resp.Status),
	}
	c.errorf("%s: server responded %d: %s", cl.op, resp.StatusCode, strings.TrimSpace(string(data)))

	if cl.protected && apiErr.Unauthorized() {
		apiErr.Message = MsgSessionExpired
		apiErr.Err = fmt.Errorf("%s: %w", cl.op, ErrSessionExpired)
		return apiErr
	}
	if msg := serverMessage(resp.Header.Get("Content-Type"), data); msg != "" {
		apiErr.Message = msg
	}
	return apiErr
}

// serverMessage pulls the human readable message out of an error body: the
// "message" field of a JSON object, or a plain text body.
func serverMessage(contentType string, data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	if data[0] == '{' {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &payload); err == nil {
			return strings.TrimSpace(payload.Message)
		}
		return ""
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "text/plain" {
		return string(data)
	}
	return ""
}

func (c *Client) errorf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Errorf(format, args...)
	}
}

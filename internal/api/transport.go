package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx whose backend calls carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// TokenSource yields the current bearer token; empty means anonymous.
type TokenSource interface {
	Token() string
}

// authTransport attaches the session token and a request id to every
// outgoing request.
type authTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if req.Header.Get(requestIDHeader) == "" {
		id := RequestID(req.Context())
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set(requestIDHeader, id)
	}
	return t.base.RoundTrip(req)
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const userAgent = "yakhteh/1.0"

// bearerTransport attaches the session token and correlation headers to
// every outgoing request.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	log    *slog.Logger
}

func newBearerTransport(base http.RoundTripper, tokens TokenSource, logger *slog.Logger) *bearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{base: base, tokens: tokens, log: logger}
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Del("Authorization")
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.NewString())
	}
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	r.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", r.Header.Get("X-Request-ID"),
		"authenticated", r.Header.Get("Authorization") != "",
		"elapsed", time.Since(start),
	}
	if err != nil {
		t.log.Warn("request failed", append(attrs, "err", err)...)
		return nil, err
	}
	t.log.Debug("request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}

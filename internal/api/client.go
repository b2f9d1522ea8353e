package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:8001/api/v1"
	DefaultTimeout = 5 * time.Second

	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	mePath       = "/auth/me"
	healthPath   = "/healthz"

	maxErrorBody = 64 << 10
)

// TokenSource supplies the bearer token at send time. An empty token means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the Yakhteh API client.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	log     *slog.Logger
}

// Option customises a Client.
type Option func(*clientOptions)

type clientOptions struct {
	base   http.RoundTripper
	logger *slog.Logger
}

// WithTransport sets the RoundTripper the bearer transport wraps.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.base = rt }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a client rooted at baseURL. Every request carries the
// current token from tokens, read when the request is sent.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	o := clientOptions{base: http.DefaultTransport, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newBearerTransport(o.base, tokens, o.logger),
		},
		baseURL: u,
		log:     o.logger,
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// hostEndpoint resolves path against the API host rather than the API root.
func (c *Client) hostEndpoint(path string) string {
	u := url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host, Path: path}
	return u.String()
}

// send issues a request with an optional JSON body and returns the raw
// success body. Transport errors are returned unmodified; non-2xx responses
// become *HTTPError.
func (c *Client) send(ctx context.Context, method, target string, body any) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newHTTPError(resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", target, err)
	}
	return raw, nil
}

// do sends a request and decodes a JSON success body into dst. An empty body
// leaves dst untouched.
func (c *Client) do(ctx context.Context, method, target string, body, dst any) error {
	raw, err := c.send(ctx, method, target, body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", target, err)
	}
	return nil
}

// Login submits credentials. A success body that is not a JSON object
// decodes to an empty LoginResponse, which carries no token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	raw, err := c.send(ctx, http.MethodPost, c.endpoint(loginPath), loginRequest{Email: email, Password: password})
	if err != nil {
		return LoginResponse{}, err
	}
	var out LoginResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("login response is not a JSON object", "err", err)
		return LoginResponse{}, nil
	}
	return out, nil
}

// Register creates an account. The success body is returned as sent; the
// client does not rely on its shape.
func (c *Client) Register(ctx context.Context, r RegisterRequest) ([]byte, error) {
	return c.send(ctx, http.MethodPost, c.endpoint(registerPath), r)
}

// Me fetches the profile of the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, c.endpoint(mePath), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Health fetches the auth service health document.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, c.hostEndpoint(healthPath), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator supplies the bearer token for outgoing requests and ends the
// session when the backend rejects it.
type Authenticator interface {
	// Token returns the current token, or "" when signed out.
	Token() string
	// Expire clears the session if token is still the current one and
	// reports whether it did.
	Expire(token string) bool
}

// Navigator moves the operator to the login screen after a forced logout.
type Navigator interface {
	OnLoginScreen() bool
	ShowLogin()
}

// StaticToken is an Authenticator holding a fixed token. Expire is a no-op.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

func (t StaticToken) Expire(string) bool { return false }

// Client is the Offybox API client. Every backend call goes through it.
type Client struct {
	baseURL    string
	auth       Authenticator
	httpClient *http.Client
	log        *zap.Logger
	timeout    *time.Duration

	mu  sync.RWMutex
	nav Navigator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Zero disables it. The timeout is
// applied to a copy of the http.Client, never to the one passed in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

// WithLogger sets the logger used for request and logout lines.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithNavigator sets the navigator notified after a forced logout.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.nav = nav }
}

// New creates a new API client.
func New(baseURL string, auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = StaticToken("")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c
}

// SetNavigator installs the navigator once the UI exists.
func (c *Client) SetNavigator(nav Navigator) {
	c.mu.Lock()
	c.nav = nav
	c.mu.Unlock()
}

func (c *Client) navigator() Navigator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nav
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends an authenticated JSON request and decodes the response into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.doRequest(ctx, request{method: method, path: path, body: body}, out)
}

type request struct {
	method string
	path   string
	body   any
	// exempt requests report a 401 as rejected credentials and never end
	// the session.
	exempt bool
}

func (c *Client) doRequest(ctx context.Context, r request, out any) error {
	var reqBody io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	// The token attached here is the one a 401 refers to.
	token := c.auth.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return &Error{Kind: KindNetwork, Message: "do request", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug("request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		msg := errorMessage(respBody, resp.StatusCode)
		if readErr != nil {
			msg = fmt.Sprintf("failed to read body: %v", readErr)
		}
		apiErr := &Error{
			Kind:       classify(resp.StatusCode, r.exempt),
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
		if apiErr.Kind == KindSessionExpired {
			c.endSession(token, reqID)
		}
		return apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &Error{Kind: KindNetwork, Message: "read response", Err: err}
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// endSession runs once per session end: only the caller whose Expire call
// actually cleared the token logs out and redirects.
func (c *Client) endSession(token, reqID string) {
	if token == "" || !c.auth.Expire(token) {
		return
	}
	c.log.Warn("session expired, signed out", zap.String("request_id", reqID))
	nav := c.navigator()
	if nav != nil && !nav.OnLoginScreen() {
		nav.ShowLogin()
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, request{method: http.MethodPost, path: path, body: body}, out)
}

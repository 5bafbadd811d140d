package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"braindump/internal/logging"
	"braindump/internal/services"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	defaultUserAgent   = "braindump-go/0.1.0"
	maxResponseBytes   = 4 << 20
)

// Config captures the runtime settings required to talk to the note service.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client issues JSON requests against a fixed base origin.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	issued     issuedCookies
	userAgent  string
	logger     *slog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. A copy is kept with its
// Jar cleared; cookie handling always goes through the client's own jar.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			return
		}
		copied := *client
		copied.Jar = nil
		c.httpClient = &copied
	}
}

// WithCookieJar overrides the cookie jar holding the session credential.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		if jar != nil {
			c.jar = jar
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a client for cfg.BaseURL.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, services.Wrap(services.ErrConfiguration, "api", "new client", "base url required", nil)
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "api", "new client", "parse base url", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "api", "new client", fmt.Sprintf("base url %q must be absolute", base), nil)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
		jar:        jar,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.userAgent == "" {
		client.userAgent = defaultUserAgent
	}
	client.logger = logging.NewComponentLogger(client.logger, "api")
	return client, nil
}

// Cookies returns every live cookie the service has set on this origin,
// each with the Path it was scoped to.
func (c *Client) Cookies() []*http.Cookie {
	return c.issued.list(time.Now())
}

// SetCookies seeds the jar, e.g. from a persisted session. A cookie without
// a Path applies to the whole origin. MaxAge < 0 removes the cookie stored
// under that name and Path.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	scoped := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		if cookie == nil {
			continue
		}
		clone := *cookie
		if clone.Path == "" {
			clone.Path = "/"
		}
		scoped = append(scoped, &clone)
	}
	c.jar.SetCookies(c.baseURL, scoped)
	c.issued.record(c.baseURL, scoped, time.Now())
}

// Send issues one request and decodes the JSON response. A nil body sends no
// payload. When includeCredentials is true the session cookies are attached.
//
// Transport failures return an error marked services.ErrNetwork. A response
// body that is not valid JSON yields an absent Value and a nil error.
func (c *Client) Send(ctx context.Context, method, path string, body any, includeCredentials bool) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, c.logger).With(
		logging.String(logging.FieldEndpoint, path),
		logging.String("method", method),
	)

	target, err := c.resolve(path)
	if err != nil {
		return Value{}, err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Value{}, services.Wrap(services.ErrValidation, "api", "encode body", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return Value{}, services.Wrap(services.ErrValidation, "api", "new request", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if includeCredentials {
		for _, cookie := range c.jar.Cookies(target) {
			req.AddCookie(cookie)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Value{}, services.Wrap(services.ErrNetwork, "api", method+" "+path, fmt.Sprintf("timeout=%s", c.timeoutDuration()), err)
	}
	defer resp.Body.Close()

	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.jar.SetCookies(target, cookies)
		c.issued.record(target, cookies, time.Now())
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Value{}, services.Wrap(services.ErrNetwork, "api", method+" "+path, "read body", err)
	}
	logger.Debug("request completed",
		logging.Args(
			logging.Int("status", resp.StatusCode),
			logging.Duration("elapsed", time.Since(start)),
			logging.Int("bytes", len(payload)),
		)...,
	)

	value, ok := decodeJSON(payload)
	if !ok {
		logger.Debug("response body is not json", logging.Args(logging.String("snippet", summarizeSnippet(payload)))...)
		return Value{}, nil
	}
	return value, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "api", "resolve path", path, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, services.Wrap(services.ErrValidation, "api", "resolve path", fmt.Sprintf("%q must be relative to the base origin", path), nil)
	}
	return c.baseURL.ResolveReference(ref), nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func decodeJSON(payload []byte) (Value, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return Value{}, false
	}
	var decoded any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&decoded); err != nil {
		return Value{}, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, false
	}
	return NewValue(decoded), true
}

func summarizeSnippet(payload []byte) string {
	clean := strings.Join(strings.Fields(string(payload)), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}

package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the shared transport. It is configured once and is safe for concurrent
// use: nothing on it changes after New, and concurrency is left to the Doer.
type Client struct {
	baseURL      string
	httpClient   Doer
	credentials  credentials
	requestIDKey any
	logger       zerolog.Logger
}

var (
	_ Doer = (*http.Client)(nil)
	_ Doer = (*Client)(nil)
)

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{}, //nolint:exhaustruct
		credentials: credentials{
			apiKey:    apiKey,
			userAgent: DefaultUserAgent,
			apiHost:   hostOf(baseURL),
		},
		requestIDKey: nil,
		logger:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) UserAgent() string {
	return c.credentials.userAgent
}

// Send performs a single exchange. A relative target is resolved against the base
// URL; an absolute one is used unchanged. The API key is only attached when the
// target is on the base URL's host, so an absolute URL elsewhere (a CDN link, say)
// is sent without it.
func (c *Client) Send(
	ctx context.Context,
	method string,
	target string,
	header http.Header,
	body io.Reader,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(target), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return c.Do(req)
}

// Execute builds the endpoint against the base URL and sends it.
func (c *Client) Execute(ctx context.Context, endpoint Endpoint) (*http.Response, error) {
	req, err := endpoint.Build(ctx, c.baseURL)
	if err != nil {
		return nil, err
	}

	return c.Do(req)
}

// Do stamps the fixed headers onto req and hands it to the underlying Doer. There is
// exactly one attempt.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header == nil {
		req.Header = http.Header{}
	}

	if req.Header.Get(HeaderAccept) == "" {
		req.Header.Set(HeaderAccept, ContentTypeJSON)
	}

	requestID := req.Header.Get(HeaderXRequestID)
	if requestID == "" {
		requestID = c.extractRequestID(req.Context())
		req.Header.Set(HeaderXRequestID, requestID)
	}

	c.credentials.apply(req.Header, req.URL.Host)

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("Nexus request failed.")

		return nil, &TransportError{
			Method: req.Method,
			URL:    req.URL.Redacted(),
			Err:    err,
		}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("Nexus request completed.")

	return resp, nil
}

func (c *Client) resolve(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}

	if target != "" && !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	return c.baseURL + target
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return parsed.Host
}

func (c *Client) extractRequestID(ctx context.Context) string {
	if c.requestIDKey != nil {
		if id, ok := ctx.Value(c.requestIDKey).(string); ok && id != "" {
			return id
		}
	}

	return uuid.New().String()
}

package httpclient

import "github.com/rs/zerolog"

const (
	HeaderAPIKey              = "apikey"
	HeaderUserAgent           = "User-Agent"
	HeaderAccept              = "Accept"
	HeaderContentType         = "Content-Type"
	HeaderXRequestID          = "X-Request-ID"
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	DefaultUserAgent          = "nexusapi-go/1.0"
)

type Option func(*Client)

// WithHTTPClient replaces the underlying transport. The client is shared by every
// request, so it must be safe for concurrent use.
func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.credentials.userAgent = userAgent
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDKey makes the client reuse a request id stored in the context under
// key instead of generating a new one.
func WithRequestIDKey(key any) Option {
	return func(c *Client) {
		c.requestIDKey = key
	}
}

package httpclient

import "net/http"

// Response is a decoded 2xx reply together with the metadata callers sometimes need,
// such as the rate limit headers the service sends.
type Response[T any] struct {
	StatusCode int
	Headers    http.Header
	RequestID  string
	Data       T
}

package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrRequestFailed  = errors.New("httpclient: request failed")
	ErrServiceError   = errors.New("httpclient: service error")
	ErrDecodeResponse = errors.New("httpclient: failed to decode response")
	ErrCreateRequest  = errors.New("httpclient: failed to create request")
	ErrEncodeBody     = errors.New("httpclient: failed to encode request body")
	ErrPathParams     = errors.New("httpclient: path parameters do not match template")
	ErrMissingField   = errors.New("httpclient: required field missing")
)

// TransportError means the exchange never produced a usable response: DNS, TLS,
// connection reset, context cancellation or a failed body read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("httpclient: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrRequestFailed, e.Err}
}

// HTTPError is any non-2xx reply. Body is kept byte for byte because the service
// puts its human readable explanation there.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	RequestID  string
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *HTTPError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("httpclient: service returned status %d: %s", e.StatusCode, msg)
	}

	return fmt.Sprintf("httpclient: service returned status %d", e.StatusCode)
}

// Message returns the service supplied explanation, falling back to the raw body.
func (e *HTTPError) Message() string {
	var body errorBody
	if err := json.Unmarshal(e.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}

		if body.Error != "" {
			return body.Error
		}
	}

	return strings.TrimSpace(excerpt(e.Body))
}

func (e *HTTPError) Unwrap() error {
	return ErrServiceError
}

// DecodeError is a 2xx reply whose body does not fit the expected type.
type DecodeError struct {
	StatusCode int
	Err        error
	Excerpt    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("httpclient: decode status %d response: %v (body: %q)", e.StatusCode, e.Err, e.Excerpt)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecodeResponse, e.Err}
}

func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}

	return nil, false
}

func IsDecodeError(err error) (*DecodeError, bool) {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr, true
	}

	return nil, false
}

func IsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr, true
	}

	return nil, false
}

// StatusCode returns the status carried by an HTTPError in err's chain, or 0.
func StatusCode(err error) int {
	if httpErr, ok := IsHTTPError(err); ok {
		return httpErr.StatusCode
	}

	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	code := StatusCode(err)

	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

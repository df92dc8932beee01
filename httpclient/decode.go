package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"unicode/utf8"
)

const maxExcerptBytes = 512

// Decode consumes and closes resp.Body. Non-2xx replies become *HTTPError without
// any attempt to parse the body as T.
func Decode[T any](resp *http.Response) (Response[T], error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		method, target := requestLine(resp)

		return Response[T]{}, &TransportError{
			Method: method,
			URL:    target,
			Err:    fmt.Errorf("read response body: %w", err),
		}
	}

	requestID := responseRequestID(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response[T]{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       body,
			Header:     resp.Header.Clone(),
			RequestID:  requestID,
		}
	}

	var payload T
	if err := unmarshalStrict(body, &payload); err != nil {
		return Response[T]{}, &DecodeError{
			StatusCode: resp.StatusCode,
			Err:        err,
			Excerpt:    excerpt(body),
		}
	}

	return Response[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		RequestID:  requestID,
		Data:       payload,
	}, nil
}

func unmarshalStrict(body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return err
	}

	return checkRequired(body, reflect.TypeOf(target).Elem())
}

func excerpt(body []byte) string {
	if len(body) <= maxExcerptBytes {
		return string(body)
	}

	cut := maxExcerptBytes
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}

	return string(body[:cut]) + "..."
}

func responseRequestID(resp *http.Response) string {
	if id := resp.Header.Get(HeaderXRequestID); id != "" {
		return id
	}

	if resp.Request != nil {
		return resp.Request.Header.Get(HeaderXRequestID)
	}

	return ""
}

func requestLine(resp *http.Response) (string, string) {
	if resp.Request == nil || resp.Request.URL == nil {
		return "", ""
	}

	return resp.Request.Method, resp.Request.URL.Redacted()
}

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Encoding selects how an endpoint's Body is written to the wire.
type Encoding int

const (
	EncodingNone Encoding = iota
	EncodingJSON
	EncodingForm
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingJSON:
		return "json"
	case EncodingForm:
		return "form"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

var placeholderPattern = regexp.MustCompile(`\{[^{}/]+\}`)

// Endpoint describes one call. Path is a template such as
// "/v1/games/{game}/mods/{mod_id}.json" whose placeholders are filled from
// PathParams in order.
type Endpoint struct {
	Method     string
	Path       string
	PathParams []string
	Query      map[string]string
	Header     http.Header
	Body       any
	Encoding   Encoding
}

func (e Endpoint) Build(ctx context.Context, baseURL string) (*http.Request, error) {
	path, err := e.ExpandPath()
	if err != nil {
		return nil, err
	}

	target, err := url.Parse(strings.TrimSuffix(baseURL, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}

	target.RawQuery = e.EncodeQuery()

	body, contentType, err := e.encodeBody()
	if err != nil {
		return nil, err
	}

	method := e.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateRequest, err)
	}

	for key, values := range e.Header {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	if contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}

	return req, nil
}

// ExpandPath substitutes PathParams into the template, percent-encoding each value
// as a single path segment.
func (e Endpoint) ExpandPath() (string, error) {
	placeholders := placeholderPattern.FindAllStringIndex(e.Path, -1)
	if len(placeholders) != len(e.PathParams) {
		return "", fmt.Errorf("%w: %q expects %d, got %d",
			ErrPathParams, e.Path, len(placeholders), len(e.PathParams))
	}

	var builder strings.Builder

	if !strings.HasPrefix(e.Path, "/") {
		builder.WriteByte('/')
	}

	last := 0

	for idx, loc := range placeholders {
		builder.WriteString(e.Path[last:loc[0]])
		builder.WriteString(url.PathEscape(e.PathParams[idx]))
		last = loc[1]
	}

	builder.WriteString(e.Path[last:])

	return builder.String(), nil
}

// EncodeQuery renders Query as a query string. Keys with an empty value are left
// out entirely, so an unset optional filter never reaches the wire.
func (e Endpoint) EncodeQuery() string {
	params := url.Values{}

	for key, value := range e.Query {
		if value == "" {
			continue
		}

		params.Set(key, value)
	}

	return params.Encode()
}

func (e Endpoint) encodeBody() (io.Reader, string, error) {
	switch e.Encoding {
	case EncodingNone:
		if e.Body != nil {
			return nil, "", fmt.Errorf("%w: body given without an encoding", ErrEncodeBody)
		}

		return nil, "", nil
	case EncodingJSON:
		if e.Body == nil {
			return nil, "", nil
		}

		data, err := json.Marshal(e.Body)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrEncodeBody, err)
		}

		return bytes.NewReader(data), ContentTypeJSON, nil
	case EncodingForm:
		if e.Body == nil {
			return nil, "", nil
		}

		values, err := formValues(e.Body)
		if err != nil {
			return nil, "", err
		}

		return strings.NewReader(values.Encode()), ContentTypeFormURLEncoded, nil
	default:
		return nil, "", fmt.Errorf("%w: unknown %s", ErrEncodeBody, e.Encoding)
	}
}

func formValues(body any) (url.Values, error) {
	switch v := body.(type) {
	case url.Values:
		return v, nil
	case map[string]string:
		values := url.Values{}
		for key, value := range v {
			values.Set(key, value)
		}

		return values, nil
	default:
		return nil, fmt.Errorf("%w: form body must be url.Values or map[string]string, got %T", ErrEncodeBody, body)
	}
}

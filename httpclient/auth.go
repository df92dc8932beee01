package httpclient

import (
	"net/http"
	"strings"
)

// credentials are the two headers every outbound request carries. They are fixed at
// construction and applied last so a per-endpoint header cannot replace them.
type credentials struct {
	apiKey    string
	userAgent string
	// apiHost is the only host the key is sent to.
	apiHost string
}

// apply removes any caller supplied variant of the credential headers, whatever its
// spelling, before setting the configured ones. The key is only set when target is
// the API host.
func (c credentials) apply(header http.Header, targetHost string) {
	for key := range header {
		if strings.EqualFold(key, HeaderAPIKey) || strings.EqualFold(key, HeaderUserAgent) {
			delete(header, key)
		}
	}

	if strings.EqualFold(targetHost, c.apiHost) {
		header.Set(HeaderAPIKey, c.apiKey)
	}

	header.Set(HeaderUserAgent, c.userAgent)
}

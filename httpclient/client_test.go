package httpclient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/andyle182810/nexusapi/httpclient"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var errConnectionReset = errors.New("connection reset by peer")

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

type requestIDKey struct{}

func TestNew_CreatesClientWithDefaultSettings(t *testing.T) {
	t.Parallel()

	client := httpclient.New("https://api.nexusmods.com", "key")

	require.NotNil(t, client)
	require.Equal(t, "https://api.nexusmods.com", client.BaseURL())
	require.Equal(t, httpclient.DefaultUserAgent, client.UserAgent())
}

func TestNew_TrimsTrailingSlashFromBaseURL(t *testing.T) {
	t.Parallel()

	client := httpclient.New("https://api.nexusmods.com/", "key")

	require.Equal(t, "https://api.nexusmods.com", client.BaseURL())
}

func TestWithUserAgent_IgnoresEmptyValue(t *testing.T) {
	t.Parallel()

	client := httpclient.New("https://api.nexusmods.com", "key",
		httpclient.WithUserAgent("modtracker/2.1"),
		httpclient.WithUserAgent(""),
	)

	require.Equal(t, "modtracker/2.1", client.UserAgent())
}

func TestWithHTTPClient_IgnoresNil(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "key", httpclient.WithHTTPClient(nil))

	resp, err := client.Send(t.Context(), http.MethodGet, "/ping", nil, nil)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestClient_Execute_SendsFixedHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("apikey"))
		assert.Equal(t, "modtracker/2.1", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "secret-key", httpclient.WithUserAgent("modtracker/2.1"))

	resp, err := client.Execute(t.Context(), httpclient.Endpoint{Method: http.MethodGet, Path: "/v1/users/validate.json"})
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_Execute_EndpointCannotOverrideCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"secret-key"}, r.Header.Values("apikey"))
		assert.Equal(t, []string{httpclient.DefaultUserAgent}, r.Header.Values("User-Agent"))
		assert.Equal(t, "kept", r.Header.Get("X-Extra"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "secret-key")

	resp, err := client.Execute(t.Context(), httpclient.Endpoint{
		Method: http.MethodGet,
		Path:   "/v1/users/validate.json",
		Header: http.Header{
			"apikey":     []string{"stolen"},
			"User-Agent": []string{"spoofed"},
			"X-Extra":    []string{"kept"},
		},
	})
	require.NoError(t, err)

	defer resp.Body.Close()
}

func TestClient_Send_CannotOverrideCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("apikey"))
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "secret-key")

	header := http.Header{}
	header.Set("Apikey", "other")
	header.Set("Accept", "text/plain")

	resp, err := client.Send(t.Context(), http.MethodGet, "v1/users/validate.json", header, nil)
	require.NoError(t, err)

	defer resp.Body.Close()
}

func TestClient_Send_LowercaseCredentialHeadersAreReplaced(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"secret-key"}, r.Header.Values("apikey"))
		assert.Equal(t, []string{httpclient.DefaultUserAgent}, r.Header.Values("User-Agent"))
		assert.Equal(t, []string{"kept"}, r.Header.Values("X-Extra"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "secret-key")

	resp, err := client.Send(t.Context(), http.MethodGet, "/v1/users/validate.json", http.Header{
		"apikey":     []string{"attacker"},
		"user-agent": []string{"spoof"},
		"x-extra":    []string{"kept"},
	}, nil)
	require.NoError(t, err)

	defer resp.Body.Close()
}

func TestClient_Do_LowercaseCredentialHeadersAreReplaced(t *testing.T) {
	t.Parallel()

	var seen http.Header

	client := httpclient.New("https://api.nexusmods.com", "secret-key",
		httpclient.WithHTTPClient(doerFunc(func(req *http.Request) (*http.Response, error) {
			seen = req.Header.Clone()

			return nil, errConnectionReset
		})),
	)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet,
		"https://api.nexusmods.com/v1/users/validate.json", nil)
	require.NoError(t, err)

	req.Header["apikey"] = []string{"attacker"}
	req.Header["APIKEY"] = []string{"attacker"}
	req.Header["user-agent"] = []string{"spoof"}

	_, err = client.Do(req) //nolint:bodyclose
	require.ErrorIs(t, err, errConnectionReset)

	apiKeys := 0
	userAgents := 0

	for key, values := range seen {
		switch {
		case strings.EqualFold(key, "apikey"):
			apiKeys += len(values)
			require.Equal(t, []string{"secret-key"}, values)
		case strings.EqualFold(key, "User-Agent"):
			userAgents += len(values)
			require.Equal(t, []string{httpclient.DefaultUserAgent}, values)
		}
	}

	require.Equal(t, 1, apiKeys)
	require.Equal(t, 1, userAgents)
}

func TestClient_Send_KeyIsNotSentToOtherHosts(t *testing.T) {
	t.Parallel()

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Values("apikey"))
		assert.Equal(t, httpclient.DefaultUserAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer other.Close()

	client := httpclient.New("https://api.nexusmods.com", "secret-key")

	resp, err := client.Send(t.Context(), http.MethodGet, other.URL+"/cdn/1001", http.Header{
		"apikey": []string{"attacker"},
	}, nil)
	require.NoError(t, err)

	defer resp.Body.Close()
}

func TestClient_Send_UsesAbsoluteTargetUnchanged(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/elsewhere", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer other.Close()

	client := httpclient.New("https://api.nexusmods.com", "key")

	resp, err := client.Send(t.Context(), http.MethodGet, other.URL+"/elsewhere", nil, nil)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, int32(1), hits.Load())
}

func TestClient_Do_ReusesRequestIDFromContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-123", r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "key", httpclient.WithRequestIDKey(requestIDKey{}))
	ctx := context.WithValue(t.Context(), requestIDKey{}, "req-123")

	resp, err := client.Execute(ctx, httpclient.Endpoint{Path: "/v1/users/validate.json"})
	require.NoError(t, err)

	defer resp.Body.Close()
}

func TestClient_Do_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "key")

	resp, err := client.Execute(t.Context(), httpclient.Endpoint{Path: "/v1/users/validate.json"})
	require.NoError(t, err)

	defer resp.Body.Close()
}

func TestClient_Do_WrapsDoerFailureAsTransportError(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	client := httpclient.New("https://api.nexusmods.com", "key",
		httpclient.WithHTTPClient(doerFunc(func(_ *http.Request) (*http.Response, error) {
			attempts.Add(1)

			return nil, errConnectionReset
		})),
	)

	resp, err := client.Execute(t.Context(), httpclient.Endpoint{ //nolint:bodyclose
		Path:       "/v1/games/{game}/mods/{mod_id}.json",
		PathParams: []string{"valheim", "387"},
	})

	require.Nil(t, resp)
	require.ErrorIs(t, err, httpclient.ErrRequestFailed)
	require.ErrorIs(t, err, errConnectionReset)
	require.Equal(t, int32(1), attempts.Load())

	transportErr, ok := httpclient.IsTransportError(err)
	require.True(t, ok)
	require.Equal(t, http.MethodGet, transportErr.Method)
	require.Equal(t, "https://api.nexusmods.com/v1/games/valheim/mods/387.json", transportErr.URL)
}

func TestClient_Do_CanceledContextIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "key")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.Execute(ctx, httpclient.Endpoint{Path: "/v1/users/validate.json"}) //nolint:bodyclose

	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, httpclient.ErrRequestFailed)
}

func TestClient_Do_LogsCompletedRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	var buf bytes.Buffer

	client := httpclient.New(server.URL, "secret-key", httpclient.WithLogger(zerolog.New(&buf)))

	resp, err := client.Execute(t.Context(), httpclient.Endpoint{Path: "/v1/users/validate.json"})
	require.NoError(t, err)

	defer resp.Body.Close()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "Nexus request completed.", entry["message"])
	require.Equal(t, "GET", entry["method"])
	require.InDelta(t, float64(http.StatusAccepted), entry["status"], 0)
	require.NotContains(t, buf.String(), "secret-key")
}

func TestClient_IsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "secret-key", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + r.URL.Query().Get("n") + `"}`))
	}))
	defer server.Close()

	client := httpclient.New(server.URL, "secret-key")

	type reply struct {
		ID string `json:"id"`
	}

	const workers = 16

	group, ctx := errgroup.WithContext(t.Context())

	for idx := range workers {
		id := string(rune('a' + idx))

		group.Go(func() error {
			data, err := httpclient.CallData[reply](ctx, client, httpclient.Endpoint{
				Path:  "/echo",
				Query: map[string]string{"n": id},
			})
			if err != nil {
				return err
			}

			assert.Equal(t, id, data.ID)

			return nil
		})
	}

	require.NoError(t, group.Wait())
	require.Equal(t, int32(workers), hits.Load())
}

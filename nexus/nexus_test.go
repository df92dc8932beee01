package nexus_test

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/andyle182810/nexusapi/httpclient"
	"github.com/andyle182810/nexusapi/nexus"
	"github.com/andyle182810/nexusapi/testutil"
	"github.com/andyle182810/nexusapi/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestClient(t *testing.T, opts ...httpclient.Option) (*nexus.Client, *testutil.FakeNexus) {
	t.Helper()

	fake := testutil.NewFakeNexus(t)

	client, err := nexus.New(nexus.Config{
		APIKey:    testutil.FakeAPIKey,
		BaseURL:   fake.URL(),
		UserAgent: testutil.FakeUserAgent,
	}, opts...)
	require.NoError(t, err)

	return client, fake
}

func TestNew_AppliesDefaults(t *testing.T) {
	t.Parallel()

	client, err := nexus.New(nexus.Config{APIKey: "key", BaseURL: "", UserAgent: ""})

	require.NoError(t, err)
	require.Equal(t, nexus.DefaultBaseURL, client.Config().BaseURL)
	require.Equal(t, nexus.DefaultUserAgent, client.Config().UserAgent)
	require.Equal(t, nexus.DefaultBaseURL, client.Transport().BaseURL())
	require.Equal(t, nexus.DefaultUserAgent, client.Transport().UserAgent())
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := nexus.DefaultConfig("key")

	require.NoError(t, cfg.Validate())
	require.Equal(t, "https://api.nexusmods.com", cfg.BaseURL)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		cfg           nexus.Config
		expectedField string
	}{
		{
			name:          "missing api key",
			cfg:           nexus.Config{APIKey: "", BaseURL: nexus.DefaultBaseURL, UserAgent: "a/1"},
			expectedField: "api_key",
		},
		{
			name:          "malformed base url",
			cfg:           nexus.Config{APIKey: "key", BaseURL: "api.nexusmods", UserAgent: "a/1"},
			expectedField: "base_url",
		},
		{
			name:          "user agent with control characters",
			cfg:           nexus.Config{APIKey: "key", BaseURL: nexus.DefaultBaseURL, UserAgent: "a/1\r\nX-Injected: 1"},
			expectedField: "user_agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := nexus.New(tt.cfg)

			require.Nil(t, client)
			require.ErrorIs(t, err, nexus.ErrInvalidConfig)

			var validationErrs validator.ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
			require.Equal(t, tt.expectedField, validationErrs[0].Field)
		})
	}
}

func TestNew_ConfigUserAgentWinsOverOption(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t, httpclient.WithUserAgent("someone-else/0.1"))

	_, err := client.Account.Validate(testutil.ContextWithTimeout(t))
	require.NoError(t, err)

	req := fake.LastRequest(t)
	require.Equal(t, testutil.FakeUserAgent, req.Header.Get("User-Agent"))
	require.Equal(t, testutil.FakeAPIKey, req.Header.Get("apikey"))
}

func TestNew_UsesInjectedHTTPClient(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	fake := testutil.NewFakeNexus(t)
	counting := &countingDoer{next: fake.Server.Client(), calls: &calls}

	client, err := nexus.New(nexus.Config{
		APIKey:    testutil.FakeAPIKey,
		BaseURL:   fake.URL(),
		UserAgent: testutil.FakeUserAgent,
	}, httpclient.WithHTTPClient(counting))
	require.NoError(t, err)

	_, err = client.Account.TrackedMods(testutil.ContextWithTimeout(t))
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_WrongKeyIsUnauthorized(t *testing.T) {
	t.Parallel()

	fake := testutil.NewFakeNexus(t)

	client, err := nexus.New(nexus.Config{APIKey: "wrong", BaseURL: fake.URL(), UserAgent: testutil.FakeUserAgent})
	require.NoError(t, err)

	_, err = client.Account.Validate(testutil.ContextWithTimeout(t))

	require.True(t, httpclient.IsUnauthorized(err))

	httpErr, ok := httpclient.IsHTTPError(err)
	require.True(t, ok)
	require.Equal(t, "Please provide a valid API Key", httpErr.Message())
}

func TestClient_ServicesShareOneTransportConcurrently(t *testing.T) {
	t.Parallel()

	client, fake := newTestClient(t)

	group, ctx := errgroup.WithContext(testutil.ContextWithTimeout(t))

	for range 8 {
		group.Go(func() error {
			mod, err := client.Mods.Get(ctx, "valheim", 387)
			if err != nil {
				return err
			}

			assert.Equal(t, uint64(387), mod.ModID)

			return nil
		})
		group.Go(func() error {
			_, err := client.ModFiles.List(ctx, "valheim", 387, nil)

			return err
		})
		group.Go(func() error {
			_, err := client.Account.Validate(ctx)

			return err
		})
	}

	require.NoError(t, group.Wait())

	requests := fake.Requests()
	require.Len(t, requests, 24)

	for _, req := range requests {
		assert.Equal(t, testutil.FakeAPIKey, req.Header.Get("apikey"))
		assert.Equal(t, testutil.FakeUserAgent, req.Header.Get("User-Agent"))
	}
}

type countingDoer struct {
	next  httpclient.Doer
	calls *atomic.Int32
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)

	return d.next.Do(req)
}

// Package nexus is a typed client for the Nexus Mods v1 REST API.
//
// One Client owns a single transport that every resource service shares:
//
//	client, err := nexus.New(nexus.DefaultConfig(apiKey))
//	if err != nil {
//		return err
//	}
//
//	mod, err := client.Mods.Get(ctx, "valheim", 387)
//
// Errors come back unchanged from the httpclient package, so callers branch with
// httpclient.IsHTTPError, httpclient.IsDecodeError and httpclient.IsTransportError.
package nexus

import (
	"github.com/andyle182810/nexusapi/httpclient"
)

type Client struct {
	Mods     *ModsService
	ModFiles *ModFilesService
	Account  *AccountService

	transport *httpclient.Client
	config    Config
}

// New validates cfg and builds the shared transport. Options are passed through to
// the transport; the key and user agent always come from cfg.
func New(cfg Config, opts ...httpclient.Option) (*Client, error) {
	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	allOpts := make([]httpclient.Option, 0, len(opts)+1)
	allOpts = append(allOpts, opts...)
	allOpts = append(allOpts, httpclient.WithUserAgent(cfg.UserAgent))

	transport := httpclient.New(cfg.BaseURL, cfg.APIKey, allOpts...)

	return &Client{
		Mods:      &ModsService{client: transport},
		ModFiles:  &ModFilesService{client: transport},
		Account:   &AccountService{client: transport},
		transport: transport,
		config:    cfg,
	}, nil
}

// Transport returns the shared transport, for endpoints this package does not bind.
func (c *Client) Transport() *httpclient.Client {
	return c.transport
}

func (c *Client) Config() Config {
	return c.config
}

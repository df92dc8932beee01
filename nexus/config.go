package nexus

import (
	"errors"
	"fmt"

	"github.com/andyle182810/nexusapi/httpclient"
	"github.com/andyle182810/nexusapi/validator"
)

const (
	DefaultBaseURL   = "https://api.nexusmods.com"
	DefaultUserAgent = httpclient.DefaultUserAgent
)

var ErrInvalidConfig = errors.New("nexus: invalid config")

// Config is copied into the Client at construction and never changes afterwards.
//
//nolint:tagliatelle
type Config struct {
	APIKey    string `json:"api_key"    validate:"required"`
	BaseURL   string `json:"base_url"   validate:"required,url"`
	UserAgent string `json:"user_agent" validate:"required,printascii"`
}

// DefaultConfig returns a Config for the public API using apiKey.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:    apiKey,
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
	}
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	return c
}

func (c Config) Validate() error {
	if err := validator.DefaultRestValidator().Validate(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

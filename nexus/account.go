package nexus

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andyle182810/nexusapi/httpclient"
)

const (
	pathValidate    = "/v1/users/validate.json"
	pathTrackedMods = "/v1/user/tracked_mods.json"
)

type AccountService struct {
	client *httpclient.Client
}

// Validate returns the profile that owns the configured key.
func (s *AccountService) Validate(ctx context.Context) (User, error) {
	return httpclient.CallData[User](ctx, s.client, httpclient.Endpoint{
		Method: http.MethodGet,
		Path:   pathValidate,
	})
}

func (s *AccountService) TrackedMods(ctx context.Context) ([]TrackedMod, error) {
	return httpclient.CallData[[]TrackedMod](ctx, s.client, httpclient.Endpoint{
		Method: http.MethodGet,
		Path:   pathTrackedMods,
	})
}

func (s *AccountService) Track(ctx context.Context, game string, modID uint64) (Message, error) {
	return httpclient.CallData[Message](ctx, s.client, httpclient.Endpoint{
		Method:   http.MethodPost,
		Path:     pathTrackedMods,
		Query:    map[string]string{"domain_name": game},
		Body:     map[string]string{"mod_id": strconv.FormatUint(modID, 10)},
		Encoding: httpclient.EncodingForm,
	})
}

//nolint:tagliatelle
type untrackBody struct {
	ModID uint64 `json:"mod_id"`
}

func (s *AccountService) Untrack(ctx context.Context, game string, modID uint64) (Message, error) {
	return httpclient.CallData[Message](ctx, s.client, httpclient.Endpoint{
		Method:   http.MethodDelete,
		Path:     pathTrackedMods,
		Query:    map[string]string{"domain_name": game},
		Body:     untrackBody{ModID: modID},
		Encoding: httpclient.EncodingJSON,
	})
}

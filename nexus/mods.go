package nexus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/andyle182810/nexusapi/httpclient"
)

const (
	pathUpdatedMods   = "/v1/games/{game}/mods/updated.json"
	pathLatestAdded   = "/v1/games/{game}/mods/latest_added.json"
	pathLatestUpdated = "/v1/games/{game}/mods/latest_updated.json"
	pathTrending      = "/v1/games/{game}/mods/trending.json"
	pathMod           = "/v1/games/{game}/mods/{mod_id}.json"
	pathChangelog     = "/v1/games/{game}/mods/{mod_id}/changelogs.json"
	pathEndorse       = "/v1/games/{game}/mods/{mod_id}/endorse.json"
	pathAbstain       = "/v1/games/{game}/mods/{mod_id}/abstain.json"
)

var ErrInvalidPeriod = errors.New("nexus: period must be 1d, 1w or 1m")

type ModsService struct {
	client *httpclient.Client
}

// Updated lists mods of game updated within period.
func (s *ModsService) Updated(ctx context.Context, game string, period Period) ([]UpdatedMod, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidPeriod, period)
	}

	return httpclient.CallData[[]UpdatedMod](ctx, s.client, httpclient.Endpoint{
		Method:     http.MethodGet,
		Path:       pathUpdatedMods,
		PathParams: []string{game},
		Query:      map[string]string{"period": string(period)},
	})
}

func (s *ModsService) Changelog(ctx context.Context, game string, modID uint64) (Changelog, error) {
	return httpclient.CallData[Changelog](ctx, s.client, modEndpoint(http.MethodGet, pathChangelog, game, modID))
}

// LatestAdded returns the ten most recently added mods of game.
func (s *ModsService) LatestAdded(ctx context.Context, game string) ([]Mod, error) {
	return s.listing(ctx, pathLatestAdded, game)
}

// LatestUpdated returns the ten most recently updated mods of game.
func (s *ModsService) LatestUpdated(ctx context.Context, game string) ([]Mod, error) {
	return s.listing(ctx, pathLatestUpdated, game)
}

// Trending returns the ten top trending mods of game.
func (s *ModsService) Trending(ctx context.Context, game string) ([]Mod, error) {
	return s.listing(ctx, pathTrending, game)
}

func (s *ModsService) Get(ctx context.Context, game string, modID uint64) (Mod, error) {
	return httpclient.CallData[Mod](ctx, s.client, modEndpoint(http.MethodGet, pathMod, game, modID))
}

// GetWithResponse is Get that also returns the status and headers of the reply.
func (s *ModsService) GetWithResponse(
	ctx context.Context,
	game string,
	modID uint64,
) (httpclient.Response[Mod], error) {
	return httpclient.Call[Mod](ctx, s.client, modEndpoint(http.MethodGet, pathMod, game, modID))
}

func (s *ModsService) Endorse(ctx context.Context, game string, modID uint64, version string) (EndorsementResult, error) {
	return s.endorsement(ctx, pathEndorse, game, modID, version)
}

// Abstain withdraws an endorsement.
func (s *ModsService) Abstain(ctx context.Context, game string, modID uint64, version string) (EndorsementResult, error) {
	return s.endorsement(ctx, pathAbstain, game, modID, version)
}

func (s *ModsService) listing(ctx context.Context, path, game string) ([]Mod, error) {
	return httpclient.CallData[[]Mod](ctx, s.client, httpclient.Endpoint{
		Method:     http.MethodGet,
		Path:       path,
		PathParams: []string{game},
	})
}

func (s *ModsService) endorsement(
	ctx context.Context,
	path string,
	game string,
	modID uint64,
	version string,
) (EndorsementResult, error) {
	endpoint := modEndpoint(http.MethodPost, path, game, modID)
	endpoint.Body = map[string]string{"version": version}
	endpoint.Encoding = httpclient.EncodingJSON

	return httpclient.CallData[EndorsementResult](ctx, s.client, endpoint)
}

func modEndpoint(method, path, game string, modID uint64) httpclient.Endpoint {
	return httpclient.Endpoint{
		Method:     method,
		Path:       path,
		PathParams: []string{game, strconv.FormatUint(modID, 10)},
	}
}

package nexus

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andyle182810/nexusapi/httpclient"
)

const (
	pathFiles        = "/v1/games/{game}/mods/{mod_id}/files.json"
	pathFile         = "/v1/games/{game}/mods/{mod_id}/files/{file_id}.json"
	pathDownloadLink = "/v1/games/{game}/mods/{mod_id}/files/{file_id}/download_link.json"
)

type ModFilesService struct {
	client *httpclient.Client
}

// List returns the files of a mod. A nil category lists every category.
func (s *ModFilesService) List(ctx context.Context, game string, modID uint64, category *FileCategory) (FileList, error) {
	resp, err := s.ListWithResponse(ctx, game, modID, category)

	return resp.Data, err
}

func (s *ModFilesService) ListWithResponse(
	ctx context.Context,
	game string,
	modID uint64,
	category *FileCategory,
) (httpclient.Response[FileList], error) {
	endpoint := modEndpoint(http.MethodGet, pathFiles, game, modID)

	if category != nil {
		endpoint.Query = map[string]string{"category": string(*category)}
	}

	return httpclient.Call[FileList](ctx, s.client, endpoint)
}

func (s *ModFilesService) Get(ctx context.Context, game string, modID, fileID uint64) (File, error) {
	return httpclient.CallData[File](ctx, s.client, fileEndpoint(pathFile, game, modID, fileID))
}

// DownloadLinks generates download links for premium accounts.
func (s *ModFilesService) DownloadLinks(ctx context.Context, game string, modID, fileID uint64) ([]DownloadLink, error) {
	return httpclient.CallData[[]DownloadLink](ctx, s.client, fileEndpoint(pathDownloadLink, game, modID, fileID))
}

// DownloadLinksWithKey generates download links for non-premium accounts. key and
// expires come from the site's "download with manager" link and are passed through
// untouched.
func (s *ModFilesService) DownloadLinksWithKey(
	ctx context.Context,
	game string,
	modID uint64,
	fileID uint64,
	key string,
	expires string,
) ([]DownloadLink, error) {
	endpoint := fileEndpoint(pathDownloadLink, game, modID, fileID)
	endpoint.Query = map[string]string{
		"key":     key,
		"expires": expires,
	}

	return httpclient.CallData[[]DownloadLink](ctx, s.client, endpoint)
}

func fileEndpoint(path, game string, modID, fileID uint64) httpclient.Endpoint {
	return httpclient.Endpoint{
		Method: http.MethodGet,
		Path:   path,
		PathParams: []string{
			game,
			strconv.FormatUint(modID, 10),
			strconv.FormatUint(fileID, 10),
		},
	}
}

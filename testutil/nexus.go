package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	FakeAPIKey    = "test-api-key"
	FakeUserAgent = "nexusapi-test/1.0"
)

// RecordedRequest is what the fake server saw for one call. Path keeps the
// percent-encoding from the wire.
type RecordedRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	ContentType string
	Body        string
}

type cannedResponse struct {
	status int
	body   string
}

type trackedMod struct {
	ModID      uint64 `json:"mod_id"`      //nolint:tagliatelle
	DomainName string `json:"domain_name"` //nolint:tagliatelle
}

// FakeNexus is an in-memory stand-in for the Nexus Mods API. It checks the
// apikey header on every call, records requests and keeps tracked mods in
// memory. Individual routes can be replaced with Respond.
type FakeNexus struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	canned   map[string]cannedResponse
	tracked  map[string][]uint64
	apiKey   string
}

func NewFakeNexus(t *testing.T) *FakeNexus {
	t.Helper()

	fake := &FakeNexus{
		Server:   nil,
		mu:       sync.Mutex{},
		requests: nil,
		canned:   make(map[string]cannedResponse),
		tracked:  make(map[string][]uint64),
		apiKey:   FakeAPIKey,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/users/validate.json", fake.handleValidate)
	mux.HandleFunc("GET /v1/user/tracked_mods.json", fake.handleTrackedMods)
	mux.HandleFunc("POST /v1/user/tracked_mods.json", fake.handleTrack)
	mux.HandleFunc("DELETE /v1/user/tracked_mods.json", fake.handleUntrack)
	mux.HandleFunc("GET /v1/games/{game}/mods/{mod}", fake.handleModListing)
	mux.HandleFunc("GET /v1/games/{game}/mods/{mod_id}/changelogs.json", fake.handleChangelog)
	mux.HandleFunc("POST /v1/games/{game}/mods/{mod_id}/endorse.json", fake.handleEndorsement("Endorsed"))
	mux.HandleFunc("POST /v1/games/{game}/mods/{mod_id}/abstain.json", fake.handleEndorsement("Abstained"))
	mux.HandleFunc("GET /v1/games/{game}/mods/{mod_id}/files.json", fake.handleFiles)
	mux.HandleFunc("GET /v1/games/{game}/mods/{mod_id}/files/{file}", fake.handleFile)
	mux.HandleFunc("GET /v1/games/{game}/mods/{mod_id}/files/{file_id}/download_link.json", fake.handleDownloadLink)

	fake.Server = httptest.NewServer(fake.middleware(mux))
	t.Cleanup(fake.Server.Close)

	return fake
}

func (f *FakeNexus) URL() string {
	return f.Server.URL
}

// Respond makes the next and every later METHOD path call return status and body
// verbatim. path is the escaped request path.
func (f *FakeNexus) Respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

func (f *FakeNexus) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.requests)
}

// LastRequest fails the test when nothing has been received yet.
func (f *FakeNexus) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()

	requests := f.Requests()
	if len(requests) == 0 {
		t.Fatal("Fake Nexus server received no requests")
	}

	return requests[len(requests)-1]
}

func (f *FakeNexus) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			Query:       r.URL.Query(),
			Header:      r.Header.Clone(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		canned, ok := f.canned[r.Method+" "+r.URL.EscapedPath()]
		f.mu.Unlock()

		if r.Header.Get("apikey") != f.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Please provide a valid API Key"})

			return
		}

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(canned.status)
			_, _ = io.WriteString(w, canned.body)

			return
		}

		w.Header().Set("X-RL-Daily-Limit", "20000")
		w.Header().Set("X-RL-Hourly-Remaining", "499")
		next.ServeHTTP(w, r)
	})
}

func (f *FakeNexus) handleValidate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      1,
		"key":          f.apiKey,
		"name":         "Dark0ne",
		"email":        "dark0ne@example.com",
		"profile_url":  "https://www.nexusmods.com/users/1",
		"is_premium":   true,
		"is_supporter": true,
	})
}

func (f *FakeNexus) handleTrackedMods(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()

	mods := make([]trackedMod, 0)

	for _, domain := range slices.Sorted(maps.Keys(f.tracked)) {
		for _, modID := range f.tracked[domain] {
			mods = append(mods, trackedMod{ModID: modID, DomainName: domain})
		}
	}

	f.mu.Unlock()

	writeJSON(w, http.StatusOK, mods)
}

func (f *FakeNexus) handleTrack(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain_name")

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "mod_id must be form encoded"})

		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})

		return
	}

	modID, err := strconv.ParseUint(r.PostForm.Get("mod_id"), 10, 64)
	if err != nil || domain == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "domain_name and mod_id are required"})

		return
	}

	f.mu.Lock()
	already := slices.Contains(f.tracked[domain], modID)

	if !already {
		f.tracked[domain] = append(f.tracked[domain], modID)
	}
	f.mu.Unlock()

	if already {
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("User 1 is already Tracking Mod: %d", modID)})

		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": fmt.Sprintf("User 1 is now Tracking Mod: %d", modID)})
}

func (f *FakeNexus) handleUntrack(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain_name")

	var body struct {
		ModID uint64 `json:"mod_id"` //nolint:tagliatelle
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || domain == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "domain_name and a JSON mod_id are required"})

		return
	}

	f.mu.Lock()
	idx := slices.Index(f.tracked[domain], body.ModID)

	if idx >= 0 {
		f.tracked[domain] = slices.Delete(f.tracked[domain], idx, idx+1)
		if len(f.tracked[domain]) == 0 {
			delete(f.tracked, domain)
		}
	}
	f.mu.Unlock()

	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Users is not tracking mod. Unable to untrack."})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("User 1 is no longer tracking %d", body.ModID)})
}

func (f *FakeNexus) handleModListing(w http.ResponseWriter, r *http.Request) {
	game := r.PathValue("game")
	name := strings.TrimSuffix(r.PathValue("mod"), ".json")

	switch name {
	case "updated":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"mod_id": 387, "latest_file_update": 1700000000, "latest_mod_activity": 1700000100},
			{"mod_id": 1204, "latest_file_update": 1700000200, "latest_mod_activity": 1700000300},
		})
	case "latest_added", "latest_updated", "trending":
		writeJSON(w, http.StatusOK, []map[string]any{ModFixture(game, 387), ModFixture(game, 1204)})
	default:
		modID, err := strconv.ParseUint(name, 10, 64)
		if err != nil || modID != 387 {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "message": "No Mod Found"})

			return
		}

		writeJSON(w, http.StatusOK, ModFixture(game, modID))
	}
}

func (f *FakeNexus) handleChangelog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"1.0.0": {"Initial release"},
		"1.1.0": {"Fixed crash on load", "Added config file"},
	})
}

func (f *FakeNexus) handleEndorsement(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Version string `json:"version"`
		}

		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "version is required"})

			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status":  status,
			"message": fmt.Sprintf("%s mod %s at version %s", status, r.PathValue("mod_id"), body.Version),
		})
	}
}

func (f *FakeNexus) handleFiles(w http.ResponseWriter, r *http.Request) {
	files := []map[string]any{FileFixture(1001, 1, "MAIN"), FileFixture(1002, 3, "OPTIONAL")}

	if category := r.URL.Query().Get("category"); category == "main" {
		files = files[:1]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"file_updates": []map[string]any{{
			"old_file_id":        1000,
			"new_file_id":        1001,
			"old_file_name":      "mod-1.0.zip",
			"new_file_name":      "mod-1.1.zip",
			"uploaded_timestamp": 1700000000,
			"uploaded_time":      "2023-11-14T22:13:20.000+00:00",
		}},
	})
}

func (f *FakeNexus) handleFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseUint(strings.TrimSuffix(r.PathValue("file"), ".json"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})

		return
	}

	writeJSON(w, http.StatusOK, FileFixture(fileID, 1, "MAIN"))
}

func (f *FakeNexus) handleDownloadLink(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("key") == "" && query.Get("expires") == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"message": "You don't have permission to get download links from the API without visting nexusmods.com",
		})

		return
	}

	writeJSON(w, http.StatusOK, []map[string]string{
		{
			"name":       "Nexus Global Content Delivery Network",
			"short_name": "Nexus CDN",
			"URI":        "https://cf-files.nexusmods.com/cdn/" + r.PathValue("file_id") + "?md5=abc",
		},
	})
}

// ModFixture is a complete mod object as the service returns it.
func ModFixture(game string, modID uint64) map[string]any {
	return map[string]any{
		"name":                       "Better Archery",
		"summary":                    "Makes archery better.",
		"description":                "[b]Better Archery[/b]",
		"picture_url":                "https://staticdelivery.nexusmods.com/mods/3667/images/387/387-1.png",
		"mod_downloads":              154030,
		"mod_unique_downloads":       98765,
		"uid":                        15753940009347,
		"mod_id":                     modID,
		"game_id":                    3667,
		"allow_rating":               true,
		"domain_name":                game,
		"category_id":                15,
		"version":                    "1.2.3",
		"endorsement_count":          2104,
		"created_timestamp":          1614538000,
		"created_time":               "2021-02-28T18:46:40.000+00:00",
		"updated_timestamp":          1700000000,
		"updated_time":               "2023-11-14T22:13:20.000+00:00",
		"author":                     "Smoothbrain",
		"uploaded_by":                "Smoothbrain",
		"uploaded_users_profile_url": "https://www.nexusmods.com/users/1",
		"contains_adult_content":     false,
		"status":                     "published",
		"available":                  true,
		"user": map[string]any{
			"member_id":       1,
			"member_group_id": 27,
			"name":            "Smoothbrain",
		},
		"endorsement": map[string]any{
			"endorse_status": "Undecided",
			"timestamp":      nil,
			"version":        nil,
		},
	}
}

func FileFixture(fileID, categoryID uint64, categoryName string) map[string]any {
	return map[string]any{
		"id":                      []uint64{fileID, 3667},
		"uid":                     15753940009347,
		"file_id":                 fileID,
		"name":                    "Better Archery",
		"version":                 "1.1",
		"category_id":             categoryID,
		"category_name":           categoryName,
		"is_primary":              categoryID == 1,
		"size":                    2048,
		"file_name":               fmt.Sprintf("Better Archery-387-1-1-%d.zip", fileID),
		"uploaded_timestamp":      1700000000,
		"uploaded_time":           "2023-11-14T22:13:20.000+00:00",
		"mod_version":             "1.1",
		"external_virus_scan_url": "https://www.virustotal.com/gui/file/abc",
		"description":             "Main file",
		"size_kb":                 2048,
		"size_in_bytes":           2097152,
		"changelog_html":          nil,
		"content_preview_link":    "https://file-metadata.nexusmods.com/file/preview.json",
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package nexus

import "fmt"

// Period selects the window for the updated-mods listing.
type Period string

const (
	PeriodDay   Period = "1d"
	PeriodWeek  Period = "1w"
	PeriodMonth Period = "1m"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	default:
		return false
	}
}

// FileCategory filters the file listing of a mod.
type FileCategory string

const (
	FileCategoryMain          FileCategory = "main"
	FileCategoryUpdate        FileCategory = "update"
	FileCategoryOptional      FileCategory = "optional"
	FileCategoryOldVersion    FileCategory = "old_version"
	FileCategoryMiscellaneous FileCategory = "miscellaneous"
	FileCategoryArchived      FileCategory = "archived"
)

//nolint:tagliatelle
type Mod struct {
	ModID                   uint64       `json:"mod_id"`
	GameID                  uint64       `json:"game_id"`
	DomainName              string       `json:"domain_name"`
	Name                    string       `json:"name,omitempty"`
	Summary                 string       `json:"summary,omitempty"`
	Description             string       `json:"description,omitempty"`
	PictureURL              *string      `json:"picture_url,omitempty"`
	Version                 string       `json:"version,omitempty"`
	Author                  string       `json:"author,omitempty"`
	UploadedBy              string       `json:"uploaded_by,omitempty"`
	UploadedUsersProfileURL string       `json:"uploaded_users_profile_url,omitempty"`
	CategoryID              uint64       `json:"category_id"`
	UID                     uint64       `json:"uid,omitempty"`
	ModDownloads            uint64       `json:"mod_downloads"`
	ModUniqueDownloads      uint64       `json:"mod_unique_downloads"`
	EndorsementCount        uint64       `json:"endorsement_count"`
	AllowRating             bool         `json:"allow_rating"`
	ContainsAdultContent    bool         `json:"contains_adult_content"`
	Available               bool         `json:"available"`
	Status                  string       `json:"status"`
	CreatedTimestamp        int64        `json:"created_timestamp"`
	CreatedTime             string       `json:"created_time"`
	UpdatedTimestamp        int64        `json:"updated_timestamp"`
	UpdatedTime             string       `json:"updated_time"`
	User                    *ModUser     `json:"user,omitempty"`
	Endorsement             *Endorsement `json:"endorsement,omitempty"`
}

//nolint:tagliatelle
type ModUser struct {
	MemberID      uint64 `json:"member_id"`
	MemberGroupID uint64 `json:"member_group_id"`
	Name          string `json:"name"`
}

//nolint:tagliatelle
type Endorsement struct {
	EndorseStatus string  `json:"endorse_status"`
	Timestamp     *int64  `json:"timestamp"`
	Version       *string `json:"version"`
}

//nolint:tagliatelle
type UpdatedMod struct {
	ModID             uint64 `json:"mod_id"`
	LatestFileUpdate  int64  `json:"latest_file_update"`
	LatestModActivity int64  `json:"latest_mod_activity"`
}

// Changelog maps a mod version to its change lines.
type Changelog map[string][]string

type EndorsementResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

//nolint:tagliatelle
type FileList struct {
	Files       []File       `json:"files"`
	FileUpdates []FileUpdate `json:"file_updates"`
}

//nolint:tagliatelle
type File struct {
	FileID               uint64  `json:"file_id"`
	Name                 string  `json:"name"`
	Version              string  `json:"version"`
	CategoryID           uint64  `json:"category_id"`
	CategoryName         *string `json:"category_name"`
	IsPrimary            bool    `json:"is_primary"`
	Size                 uint64  `json:"size"`
	SizeKB               uint64  `json:"size_kb,omitempty"`
	SizeInBytes          *uint64 `json:"size_in_bytes,omitempty"`
	FileName             string  `json:"file_name"`
	UploadedTimestamp    int64   `json:"uploaded_timestamp"`
	UploadedTime         string  `json:"uploaded_time"`
	ModVersion           string  `json:"mod_version"`
	ExternalVirusScanURL *string `json:"external_virus_scan_url,omitempty"`
	Description          *string `json:"description,omitempty"`
	ChangelogHTML        *string `json:"changelog_html,omitempty"`
	ContentPreviewLink   string  `json:"content_preview_link,omitempty"`
}

//nolint:tagliatelle
type FileUpdate struct {
	OldFileID         uint64 `json:"old_file_id"`
	NewFileID         uint64 `json:"new_file_id"`
	OldFileName       string `json:"old_file_name"`
	NewFileName       string `json:"new_file_name"`
	UploadedTimestamp int64  `json:"uploaded_timestamp"`
	UploadedTime      string `json:"uploaded_time"`
}

// DownloadLink is one CDN location for a file. Host is the CDN's display name.
//
//nolint:tagliatelle
type DownloadLink struct {
	URL       string `json:"URI"`
	Host      string `json:"name"`
	ShortName string `json:"short_name"`
}

//nolint:tagliatelle
type User struct {
	UserID      uint64 `json:"user_id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProfileURL  string `json:"profile_url,omitempty"`
	IsPremium   bool   `json:"is_premium"`
	IsSupporter bool   `json:"is_supporter"`
}

//nolint:tagliatelle
type TrackedMod struct {
	ModID      uint64 `json:"mod_id"`
	DomainName string `json:"domain_name"`
}

func (t TrackedMod) String() string {
	return fmt.Sprintf("%s/%d", t.DomainName, t.ModID)
}

type Message struct {
	Message string `json:"message"`
}

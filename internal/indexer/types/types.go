// Package types contains the record and option types exchanged with the host
// aggregation system.
package types

// ProviderType classifies a provider for the host.
type ProviderType string

// ProviderTypeMain marks a general-purpose torrent source.
const ProviderTypeMain ProviderType = "main"

// SmartSearchFilter names a smart-search option the provider understands.
type SmartSearchFilter string

const (
	FilterBatch         SmartSearchFilter = "batch"
	FilterEpisodeNumber SmartSearchFilter = "episodeNumber"
	FilterResolution    SmartSearchFilter = "resolution"
)

// ProviderSettings describes the provider capabilities to the host.
type ProviderSettings struct {
	CanSmartSearch     bool                `json:"canSmartSearch"`
	SmartSearchFilters []SmartSearchFilter `json:"smartSearchFilters"`
	SupportsAdult      bool                `json:"supportsAdult"`
	Type               ProviderType        `json:"type"`
}

// TorrentRecord is one listing entry normalized to the host schema.
type TorrentRecord struct {
	Name          string `json:"name"`
	Date          string `json:"date"` // RFC3339, empty when unknown
	Size          int64  `json:"size"`
	FormattedSize string `json:"formattedSize"`
	Seeders       int    `json:"seeders"`
	Leechers      int    `json:"leechers"`
	DownloadCount int    `json:"downloadCount"`
	Link          string `json:"link"`
	DownloadURL   string `json:"downloadUrl"`
	MagnetLink    string `json:"magnetLink"`
	InfoHash      string `json:"infoHash"`
	Resolution    string `json:"resolution"`
	ReleaseGroup  string `json:"releaseGroup"`
	IsBatch       bool   `json:"isBatch"`
	EpisodeNumber int    `json:"episodeNumber"` // -1 when unknown or batch
	IsBestRelease bool   `json:"isBestRelease"`
	Confirmed     bool   `json:"confirmed"`
}

// Media identifies the title a smart search targets.
type Media struct {
	ID                   int    `json:"id,omitempty"`
	RomajiTitle          string `json:"romajiTitle,omitempty"`
	EnglishTitle         string `json:"englishTitle,omitempty"`
	AbsoluteSeasonOffset int    `json:"absoluteSeasonOffset,omitempty"`
}

// SearchOptions defines keyword search parameters.
type SearchOptions struct {
	Query string `json:"query"`
}

// SmartSearchOptions defines episode-targeted search parameters.
type SmartSearchOptions struct {
	Query         string `json:"query,omitempty"`
	Media         Media  `json:"media"`
	EpisodeNumber int    `json:"episodeNumber"`
	Batch         bool   `json:"batch,omitempty"`
	Resolution    string `json:"resolution,omitempty"`
}

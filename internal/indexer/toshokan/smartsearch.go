package toshokan

import (
	"strings"

	"github.com/toshokan/toshokan/internal/indexer/types"
)

// SmartSearchQuery picks the search terms: the explicit query, else the romaji
// title, else the English title.
func SmartSearchQuery(opts *types.SmartSearchOptions) string {
	if q := strings.TrimSpace(opts.Query); q != "" {
		return q
	}
	if q := strings.TrimSpace(opts.Media.RomajiTitle); q != "" {
		return q
	}
	return strings.TrimSpace(opts.Media.EnglishTitle)
}

// FilterSmartSearch keeps the records that answer a smart search.
//
// A batch request keeps batch records only. Otherwise batch records and records
// with an unknown episode are dropped, and a record stays when its episode is
// the requested one or the requested one shifted by the media's absolute season
// offset. A resolution, when given, must then match ignoring a trailing "p".
func FilterSmartSearch(records []types.TorrentRecord, opts *types.SmartSearchOptions) []types.TorrentRecord {
	filtered := make([]types.TorrentRecord, 0, len(records))

	if opts.Batch {
		for _, r := range records {
			if r.IsBatch {
				filtered = append(filtered, r)
			}
		}
		return filtered
	}

	absolute := opts.Media.AbsoluteSeasonOffset + opts.EpisodeNumber
	wantRes := normalizeResolution(opts.Resolution)

	for _, r := range records {
		if r.IsBatch || r.EpisodeNumber == -1 {
			continue
		}
		if r.EpisodeNumber != opts.EpisodeNumber && r.EpisodeNumber != absolute {
			continue
		}
		if wantRes != "" && normalizeResolution(r.Resolution) != wantRes {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func normalizeResolution(res string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(res)), "p")
}

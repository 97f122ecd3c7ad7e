package toshokan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toshokan/toshokan/internal/indexer/types"
)

func names(records []types.TorrentRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func smartSearchFixture() []types.TorrentRecord {
	return []types.TorrentRecord{
		{Name: "ep5-1080", EpisodeNumber: 5, Resolution: "1080p"},
		{Name: "ep105-1080", EpisodeNumber: 105, Resolution: "1080p"},
		{Name: "ep6-1080", EpisodeNumber: 6, Resolution: "1080p"},
		{Name: "ep5-720", EpisodeNumber: 5, Resolution: "720p"},
		{Name: "unknown", EpisodeNumber: -1, Resolution: "1080p"},
		{Name: "batch", EpisodeNumber: -1, IsBatch: true, Resolution: "1080p"},
	}
}

func TestSmartSearchQuery(t *testing.T) {
	tests := []struct {
		name string
		opts types.SmartSearchOptions
		want string
	}{
		{
			name: "explicit query wins",
			opts: types.SmartSearchOptions{Query: "Sousou no Frieren", Media: types.Media{RomajiTitle: "Romaji", EnglishTitle: "English"}},
			want: "Sousou no Frieren",
		},
		{
			name: "romaji fallback",
			opts: types.SmartSearchOptions{Media: types.Media{RomajiTitle: "Romaji", EnglishTitle: "English"}},
			want: "Romaji",
		},
		{
			name: "english fallback",
			opts: types.SmartSearchOptions{Media: types.Media{EnglishTitle: "English"}},
			want: "English",
		},
		{
			name: "nothing",
			opts: types.SmartSearchOptions{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SmartSearchQuery(&tt.opts))
		})
	}
}

func TestFilterSmartSearch_AbsoluteOffset(t *testing.T) {
	opts := &types.SmartSearchOptions{
		EpisodeNumber: 5,
		Media:         types.Media{AbsoluteSeasonOffset: 100},
	}

	got := FilterSmartSearch(smartSearchFixture(), opts)
	assert.Equal(t, []string{"ep5-1080", "ep105-1080", "ep5-720"}, names(got))
}

func TestFilterSmartSearch_Batch(t *testing.T) {
	opts := &types.SmartSearchOptions{EpisodeNumber: 5, Batch: true, Resolution: "720"}

	got := FilterSmartSearch(smartSearchFixture(), opts)
	assert.Equal(t, []string{"batch"}, names(got))
}

func TestFilterSmartSearch_Resolution(t *testing.T) {
	for _, res := range []string{"1080p", "1080", "1080P"} {
		t.Run(res, func(t *testing.T) {
			opts := &types.SmartSearchOptions{EpisodeNumber: 5, Resolution: res}
			got := FilterSmartSearch(smartSearchFixture(), opts)
			assert.Equal(t, []string{"ep5-1080"}, names(got))
		})
	}
}

func TestFilterSmartSearch_NoMatches(t *testing.T) {
	opts := &types.SmartSearchOptions{EpisodeNumber: 42}

	got := FilterSmartSearch(smartSearchFixture(), opts)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

package toshokan

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://www.tokyotosho.info"

func newTestParser(t *testing.T, heuristics bool) *ListingParser {
	t.Helper()
	def, err := LoadDefinition(DefaultDefinitionID)
	require.NoError(t, err)
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return NewListingParser(def.Listing, testBaseURL, heuristics, &logger)
}

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/listing.html")
	require.NoError(t, err)
	return data
}

func TestListingParser_Full(t *testing.T) {
	parser := newTestParser(t, true)

	records, err := parser.Parse(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, records, 3)

	ep := records[0]
	assert.Equal(t, "[SubGroup] Frieren - 07 [1080p].mkv", ep.Name)
	assert.Equal(t, "2024-01-15T12:30:00.000Z", ep.Date)
	assert.Equal(t, ParseSize("1.37GB"), ep.Size)
	assert.Equal(t, "1.37GB", ep.FormattedSize)
	assert.Equal(t, 12, ep.Seeders)
	assert.Equal(t, 3, ep.Leechers)
	assert.Equal(t, 500, ep.DownloadCount)
	assert.Equal(t, testBaseURL+"/details.php?id=1800001", ep.Link)
	assert.True(t, strings.HasPrefix(ep.MagnetLink, "magnet:?xt=urn:btih:4F2A9C1D"))
	assert.Equal(t, "4F2A9C1D7E3B5A6F8091C2D3E4F5A6B7C8D9E0F1", ep.InfoHash)
	assert.Equal(t, "1080p", ep.Resolution)
	assert.Equal(t, 7, ep.EpisodeNumber)
	assert.False(t, ep.IsBatch)
	assert.Empty(t, ep.ReleaseGroup)
	assert.Empty(t, ep.DownloadURL)
	assert.False(t, ep.IsBestRelease)
	assert.False(t, ep.Confirmed)

	batch := records[1]
	assert.Equal(t, "[OtherGroup] Frieren (01-12) [ENG] [720P] [Dual Audio]", batch.Name)
	assert.True(t, batch.IsBatch)
	assert.Equal(t, -1, batch.EpisodeNumber)
	assert.Equal(t, "720P", batch.Resolution)
	assert.Equal(t, 5, batch.Seeders)
	assert.Equal(t, 0, batch.Leechers)
	assert.Equal(t, 0, batch.DownloadCount)
	assert.Equal(t, "75.63MB", batch.FormattedSize)
	assert.Equal(t, "2024-02-01T08:05:00.000Z", batch.Date)

	bare := records[2]
	assert.Equal(t, "Frieren OST", bare.Name)
	assert.Empty(t, bare.Link)
	assert.Empty(t, bare.InfoHash)
	assert.Empty(t, bare.Date)
	assert.Equal(t, "0", bare.FormattedSize)
	assert.Equal(t, int64(0), bare.Size)
	assert.Equal(t, -1, bare.EpisodeNumber)
}

func TestListingParser_Basic(t *testing.T) {
	parser := newTestParser(t, false)

	records, err := parser.Parse(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, records, 3)

	// No heuristics: names are untouched and episodes unknown.
	assert.Equal(t, "[OtherGroup] Frieren (01-12) [ENG] [720P]", records[1].Name)
	assert.False(t, records[1].IsBatch)
	for _, r := range records {
		assert.Equal(t, -1, r.EpisodeNumber)
	}
	assert.Equal(t, "720P", records[1].Resolution)
}

func TestListingParser_RecordInvariants(t *testing.T) {
	parser := newTestParser(t, true)
	fixture := loadFixture(t)

	doc, err := LoadDocument(fixture)
	require.NoError(t, err)
	cells := doc.Find("table.listing td.desc-top").Len()

	records := parser.ParseNode(doc)
	assert.LessOrEqual(t, len(records), cells)
	for _, r := range records {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.MagnetLink)
		if r.IsBatch {
			assert.Equal(t, -1, r.EpisodeNumber)
		}
	}
}

func TestListingParser_EmptyPage(t *testing.T) {
	parser := newTestParser(t, true)

	records, err := parser.Parse([]byte("<html><body><p>No results</p></body></html>"))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestListingParser_LastAnchorIsTitle(t *testing.T) {
	parser := newTestParser(t, true)
	html := `<table class="listing">
<tr><td class="desc-top"><a href="magnet:?xt=urn:btih:ABC">m</a><a href="/?cat=1">Anime</a><a href="f.torrent">[G] Title - 02 [480p]</a></td></tr>
<tr><td class="desc-bot">Size: 10KB</td><td class="stats">C: 4</td></tr>
</table>`

	records, err := parser.Parse([]byte(html))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "[G] Title - 02 [480p]", records[0].Name)
	assert.Equal(t, 2, records[0].EpisodeNumber)
	assert.Equal(t, int64(10240), records[0].Size)
	assert.Equal(t, 4, records[0].DownloadCount)
	assert.Equal(t, "ABC", records[0].InfoHash)
}

package toshokan

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/toshokan/toshokan/internal/indexer/types"
)

// ListingParser turns a listing page into records. It keeps no state between
// entries or calls.
type ListingParser struct {
	listing    ListingBlock
	baseURL    string
	heuristics bool
	logger     *zerolog.Logger
}

// NewListingParser creates a parser for a definition's listing layout. With
// heuristics enabled, titles are also mined for episode/batch info and tagged.
func NewListingParser(listing ListingBlock, baseURL string, heuristics bool, logger *zerolog.Logger) *ListingParser {
	subLogger := logger.With().Str("component", "listing").Logger()
	return &ListingParser{
		listing:    listing,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		heuristics: heuristics,
		logger:     &subLogger,
	}
}

// Parse extracts one record per well-formed entry, in page order. Entries
// without a title or magnet anchor are skipped. An error is returned only when
// the document itself cannot be parsed.
func (p *ListingParser) Parse(html []byte) ([]types.TorrentRecord, error) {
	doc, err := LoadDocument(html)
	if err != nil {
		return nil, err
	}
	return p.ParseNode(doc), nil
}

// ParseNode runs the extraction over an already loaded document.
func (p *ListingParser) ParseNode(doc Node) []types.TorrentRecord {
	records := []types.TorrentRecord{}
	skipped := 0

	doc.Find(p.listing.Entry).Each(func(_ int, cell Node) {
		record, ok := p.parseEntry(cell)
		if !ok {
			skipped++
			return
		}
		records = append(records, record)
	})

	p.logger.Debug().Int("records", len(records)).Int("skipped", skipped).Msg("Parsed listing")
	return records
}

// parseEntry reads one listing entry. The top row holds the title cell and the
// details link; its next sibling row holds the description and stats cells.
func (p *ListingParser) parseEntry(cell Node) (types.TorrentRecord, bool) {
	topRow := cell.Parent()
	bottomRow := topRow.Next()

	// Category anchors may precede the title, so the last anchor is the title.
	nameEl := cell.Find(p.listing.Title).Last()
	magnetEl := cell.Find(p.listing.Magnet)
	if nameEl.Len() == 0 || magnetEl.Len() == 0 {
		return types.TorrentRecord{}, false
	}

	name := ExtractText(nameEl)
	magnetLink := ExtractAttribute(magnetEl, "href")
	if name == "" || magnetLink == "" {
		return types.TorrentRecord{}, false
	}

	var link string
	if p.listing.Details != "" {
		if href := ExtractAttribute(topRow.Find(p.listing.Details), "href"); href != "" {
			link = p.baseURL + "/" + strings.TrimPrefix(href, "/")
		}
	}

	var descText, statsText string
	if bottomRow.Len() > 0 {
		descText = bottomRow.Find(p.listing.Description).Text()
		statsText = bottomRow.Find(p.listing.Stats).Text()
	}
	sizeStr, dateStr := descriptionFields(descText)
	stats := ParseStats(statsText)

	record := types.TorrentRecord{
		Name:          name,
		Date:          ParseDate(dateStr),
		Size:          ParseSize(sizeStr),
		FormattedSize: sizeStr,
		Seeders:       stats.Seeders,
		Leechers:      stats.Leechers,
		DownloadCount: stats.Completed,
		Link:          link,
		MagnetLink:    magnetLink,
		InfoHash:      ExtractInfoHash(magnetLink),
		Resolution:    ParseResolution(name),
		EpisodeNumber: -1,
	}

	if p.heuristics {
		record.IsBatch = IsBatch(name)
		record.EpisodeNumber = ParseEpisode(name)
		record.Name = FormatName(name)
	}

	return record, true
}

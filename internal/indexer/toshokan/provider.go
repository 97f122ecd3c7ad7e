package toshokan

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/toshokan/toshokan/internal/indexer"
	"github.com/toshokan/toshokan/internal/indexer/ratelimit"
	"github.com/toshokan/toshokan/internal/indexer/types"
)

// Options configures a Provider.
type Options struct {
	Variant    Variant
	BaseURL    string // overrides the definition's first link when set
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter // optional outbound query budget
}

// Provider exposes the host operations for one definition and variant.
type Provider struct {
	def     *Definition
	variant Variant
	caps    VariantBlock
	baseURL string
	client  *Client
	parser  *ListingParser
	logger  *zerolog.Logger
}

// New creates a provider. It fails only when the variant is unknown.
func New(def *Definition, opts Options, logger *zerolog.Logger) (*Provider, error) {
	if opts.Variant == "" {
		opts.Variant = VariantFull
	}
	caps, err := def.GetVariant(opts.Variant)
	if err != nil {
		return nil, indexer.NewConfigError(def.Name, err.Error())
	}

	baseURL := def.GetBaseURL()
	if opts.BaseURL != "" {
		baseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}

	subLogger := logger.With().Str("indexer", def.ID).Str("variant", string(opts.Variant)).Logger()

	return &Provider{
		def:     def,
		variant: opts.Variant,
		caps:    caps,
		baseURL: baseURL,
		client:  NewClient(def.Name, opts.HTTPClient, opts.UserAgent, opts.Limiter, &subLogger),
		parser:  NewListingParser(def.Listing, baseURL, caps.Heuristics, &subLogger),
		logger:  &subLogger,
	}, nil
}

// Name returns the site name.
func (p *Provider) Name() string {
	return p.def.Name
}

// Variant returns the configured variant.
func (p *Provider) Variant() Variant {
	return p.variant
}

// Settings describes the provider capabilities. No I/O.
func (p *Provider) Settings() types.ProviderSettings {
	filters := make([]types.SmartSearchFilter, 0, len(p.caps.Filters))
	if p.caps.SmartSearch {
		filters = append(filters, p.caps.Filters...)
	}
	return types.ProviderSettings{
		CanSmartSearch:     p.caps.SmartSearch,
		SmartSearchFilters: filters,
		SupportsAdult:      p.caps.Adult,
		Type:               types.ProviderTypeMain,
	}
}

// Search runs a keyword search. Transport failures are returned to the caller.
func (p *Provider) Search(ctx context.Context, opts types.SearchOptions) ([]types.TorrentRecord, error) {
	searchURL := p.buildSearchURL(opts.Query, p.caps.Category)

	body, err := p.client.Fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	records, err := p.parser.Parse(body)
	if err != nil {
		return nil, indexer.NewParseError(p.def.Name, "failed to parse search results", err)
	}
	return records, nil
}

// GetLatest returns the homepage listing. Failures are logged and yield an
// empty list.
func (p *Provider) GetLatest(ctx context.Context) []types.TorrentRecord {
	body, err := p.client.Fetch(ctx, p.baseURL)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to fetch latest listing")
		return []types.TorrentRecord{}
	}

	records, err := p.parser.Parse(body)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to parse latest listing")
		return []types.TorrentRecord{}
	}
	return records
}

// GetTorrentMagnetLink returns the magnet link already present on the record;
// the listing embeds it, so no details page is fetched.
func (p *Provider) GetTorrentMagnetLink(_ context.Context, record *types.TorrentRecord) string {
	if record == nil {
		return ""
	}
	return record.MagnetLink
}

// SmartSearch searches for one episode (or a batch) of a media title and
// filters the listing accordingly. Failures are logged and yield an empty list.
// Variants without smart search always return an empty list.
func (p *Provider) SmartSearch(ctx context.Context, opts *types.SmartSearchOptions) []types.TorrentRecord {
	if !p.caps.SmartSearch || opts == nil {
		return []types.TorrentRecord{}
	}

	query := SmartSearchQuery(opts)
	category := p.caps.Category
	if opts.Batch && p.caps.BatchCategory != 0 {
		category = p.caps.BatchCategory
	}

	body, err := p.client.Fetch(ctx, p.buildSearchURL(query, category))
	if err != nil {
		p.logger.Warn().Err(err).Str("query", query).Msg("Smart search failed")
		return []types.TorrentRecord{}
	}

	records, err := p.parser.Parse(body)
	if err != nil {
		p.logger.Warn().Err(err).Str("query", query).Msg("Failed to parse smart search results")
		return []types.TorrentRecord{}
	}

	filtered := FilterSmartSearch(records, opts)
	p.logger.Debug().
		Str("query", query).
		Int("episode", opts.EpisodeNumber).
		Bool("batch", opts.Batch).
		Int("parsed", len(records)).
		Int("kept", len(filtered)).
		Msg("Smart search filtered")
	return filtered
}

// buildSearchURL renders {origin}/search.php?terms=<q>&<param>=<category>.
func (p *Provider) buildSearchURL(query string, category int) string {
	q := url.Values{}
	keywordsParam := p.def.Search.KeywordsParam
	if keywordsParam == "" {
		keywordsParam = "terms"
	}
	q.Set(keywordsParam, query)
	if p.caps.CategoryParam != "" && category > 0 {
		q.Set(p.caps.CategoryParam, strconv.Itoa(category))
	}
	return p.baseURL + "/" + strings.TrimPrefix(p.def.Search.Path, "/") + "?" + q.Encode()
}

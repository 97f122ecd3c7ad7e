package toshokan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/toshokan/toshokan/internal/indexer"
	"github.com/toshokan/toshokan/internal/indexer/ratelimit"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultTimeout   = 30 * time.Second
)

// Client performs the single GET each provider operation needs.
type Client struct {
	name       string
	httpClient *http.Client
	userAgent  string
	limiter    *ratelimit.Limiter // optional
	logger     *zerolog.Logger
}

// NewClient creates a fetcher. A nil httpClient gets a default with a timeout;
// a nil limiter never refuses.
func NewClient(name string, httpClient *http.Client, userAgent string, limiter *ratelimit.Limiter, logger *zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	subLogger := logger.With().Str("component", "client").Logger()
	return &Client{
		name:       name,
		httpClient: httpClient,
		userAgent:  userAgent,
		limiter:    limiter,
		logger:     &subLogger,
	}
}

// Fetch GETs a page and returns its body. Transport failures come back as a
// network error, non-2xx answers as an error carrying the status code.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if !c.limiter.Allow(c.name) {
		return nil, indexer.NewRateLimitError(c.name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	c.logger.Debug().Str("url", pageURL).Msg("Fetching page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, indexer.NewNetworkError(c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, indexer.NewSearchError(c.name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, indexer.NewNetworkError(c.name, fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}

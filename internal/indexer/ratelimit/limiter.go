// Package ratelimit caps how many requests the provider sends to a site.
package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config defines rate limit configuration.
type Config struct {
	// QueryLimit is the maximum number of queries allowed in the period; zero
	// or less disables limiting.
	QueryLimit int
	// QueryPeriod is the time period for query limiting
	QueryPeriod time.Duration
}

// DefaultConfig returns the default rate limit configuration.
func DefaultConfig() Config {
	return Config{
		QueryLimit:  0,
		QueryPeriod: time.Hour,
	}
}

// Limiter tracks query counts per site.
type Limiter struct {
	logger zerolog.Logger
	config Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*rateBucket
}

// rateBucket tracks rate limit state for a single site.
type rateBucket struct {
	count     int
	resetTime time.Time
}

// LimitStatus reports the current usage of one site.
type LimitStatus struct {
	Count     int       `json:"count"`
	Limit     int       `json:"limit"`
	ResetTime time.Time `json:"resetTime"`
	Limited   bool      `json:"limited"`
}

// NewLimiter creates a new rate limiter.
func NewLimiter(config Config, logger zerolog.Logger) *Limiter {
	if config.QueryPeriod <= 0 {
		config.QueryPeriod = time.Hour
	}
	return &Limiter{
		logger:  logger.With().Str("component", "rate-limiter").Logger(),
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*rateBucket),
	}
}

// Enabled reports whether a query limit is configured.
func (l *Limiter) Enabled() bool {
	return l != nil && l.config.QueryLimit > 0
}

// Allow records a query for site and reports whether it may be sent. A
// refused query is not counted.
func (l *Limiter) Allow(site string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.bucket(site)
	if bucket.count >= l.config.QueryLimit {
		l.logger.Warn().
			Str("site", site).
			Int("count", bucket.count).
			Int("limit", l.config.QueryLimit).
			Time("resetTime", bucket.resetTime).
			Msg("Query rate limit reached")
		return false
	}

	bucket.count++
	l.logger.Debug().
		Str("site", site).
		Int("queryCount", bucket.count).
		Int("queryLimit", l.config.QueryLimit).
		Msg("Recorded query")
	return true
}

// Status returns the current usage for site. A nil limiter reports zero usage
// and no limit.
func (l *Limiter) Status(site string) LimitStatus {
	if l == nil {
		return LimitStatus{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.bucket(site)
	return LimitStatus{
		Count:     bucket.count,
		Limit:     l.config.QueryLimit,
		ResetTime: bucket.resetTime,
		Limited:   l.config.QueryLimit > 0 && bucket.count >= l.config.QueryLimit,
	}
}

// bucket returns the bucket for site, starting a new period when the last one
// has passed. Callers hold mu.
func (l *Limiter) bucket(site string) *rateBucket {
	now := l.now()
	b, ok := l.buckets[site]
	if !ok {
		b = &rateBucket{resetTime: now.Add(l.config.QueryPeriod)}
		l.buckets[site] = b
	}
	if now.After(b.resetTime) {
		b.count = 0
		b.resetTime = now.Add(l.config.QueryPeriod)
	}
	return b
}

// Package feedsync polls the latest listing and remembers the releases that
// appeared since the previous poll.
package feedsync

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/toshokan/toshokan/internal/indexer/types"
)

const defaultMaxEntries = 500

// LatestSource yields the current homepage listing, newest first.
type LatestSource interface {
	GetLatest(ctx context.Context) []types.TorrentRecord
}

// Entry is a release first seen by a sync run.
type Entry struct {
	Record    types.TorrentRecord `json:"record"`
	FirstSeen time.Time           `json:"firstSeen"`
}

// Status summarizes the last sync run.
type Status struct {
	LastRun  *time.Time `json:"lastRun,omitempty"`
	LastNew  int        `json:"lastNew"`
	Total    int        `json:"total"`
	Boundary string     `json:"boundary,omitempty"`
}

// Service tracks new releases between polls of the latest listing.
type Service struct {
	source  LatestSource
	entries *RingBuffer[Entry]
	logger  zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	boundary string // magnet link of the newest release seen so far
	lastRun  *time.Time
	lastNew  int
}

// NewService creates a feed sync service keeping at most maxEntries releases.
func NewService(source LatestSource, maxEntries int, logger zerolog.Logger) *Service {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Service{
		source:  source,
		entries: NewRingBuffer[Entry](maxEntries),
		logger:  logger.With().Str("component", "feed-sync").Logger(),
		now:     time.Now,
	}
}

// Run polls the latest listing once. Releases above the cache boundary are
// stored; the boundary then moves to the newest release.
func (s *Service) Run(ctx context.Context) error {
	records := s.source.GetLatest(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastRun = &now

	if len(records) == 0 {
		s.lastNew = 0
		s.logger.Debug().Msg("Latest listing empty, boundary unchanged")
		return nil
	}

	fresh := newSinceBoundary(records, s.boundary)
	// Oldest first so the buffer keeps listing order.
	for i := len(fresh) - 1; i >= 0; i-- {
		s.entries.Push(Entry{Record: fresh[i], FirstSeen: now})
	}

	s.boundary = records[0].MagnetLink
	s.lastNew = len(fresh)

	s.logger.Info().Int("listed", len(records)).Int("new", len(fresh)).Msg("Feed sync completed")
	return nil
}

// Recent returns the remembered releases, newest first.
func (s *Service) Recent() []Entry {
	return s.entries.Newest()
}

// Status reports the outcome of the last run.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		LastRun:  s.lastRun,
		LastNew:  s.lastNew,
		Total:    s.entries.Len(),
		Boundary: s.boundary,
	}
}

// newSinceBoundary returns the records listed above the boundary release. With
// no boundary, or when the boundary fell off the page, the whole page is new.
func newSinceBoundary(records []types.TorrentRecord, boundary string) []types.TorrentRecord {
	if boundary == "" {
		return records
	}
	for i, r := range records {
		if r.MagnetLink == boundary {
			return records[:i]
		}
	}
	return records
}

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/toshokan/toshokan/internal/feedsync"
	"github.com/toshokan/toshokan/internal/indexer/types"
	"github.com/toshokan/toshokan/internal/scheduler"
)

// getSettings returns the provider capabilities.
// GET /api/v1/settings
func (s *Server) getSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, s.provider.Settings())
}

// search runs a keyword search.
// GET /api/v1/search?q=
func (s *Server) search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	records, err := s.provider.Search(c.Request().Context(), types.SearchOptions{Query: query})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Search failed")
		return echo.NewHTTPError(searchErrorStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

// getLatest returns the homepage listing.
// GET /api/v1/latest
func (s *Server) getLatest(c echo.Context) error {
	return c.JSON(http.StatusOK, s.provider.GetLatest(c.Request().Context()))
}

// smartSearch runs an episode-targeted search.
// POST /api/v1/smart-search
func (s *Server) smartSearch(c echo.Context) error {
	var opts types.SmartSearchOptions
	if err := c.Bind(&opts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid smart search options")
	}
	return c.JSON(http.StatusOK, s.provider.SmartSearch(c.Request().Context(), &opts))
}

type magnetResponse struct {
	MagnetLink string `json:"magnetLink"`
}

// getMagnetLink returns the magnet link of a record.
// POST /api/v1/magnet
func (s *Server) getMagnetLink(c echo.Context) error {
	var record types.TorrentRecord
	if err := c.Bind(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid torrent record")
	}
	magnet := s.provider.GetTorrentMagnetLink(c.Request().Context(), &record)
	return c.JSON(http.StatusOK, magnetResponse{MagnetLink: magnet})
}

type feedResponse struct {
	Status  feedsync.Status  `json:"status"`
	Entries []feedsync.Entry `json:"entries"`
}

// getFeed returns releases seen by the feed sync, newest first.
// GET /api/v1/feed
func (s *Server) getFeed(c echo.Context) error {
	if s.feed == nil {
		return echo.NewHTTPError(http.StatusNotFound, "feed sync is disabled")
	}
	return c.JSON(http.StatusOK, feedResponse{
		Status:  s.feed.Status(),
		Entries: s.feed.Recent(),
	})
}

// listTasks returns the scheduled tasks.
// GET /api/v1/tasks
func (s *Server) listTasks(c echo.Context) error {
	if s.scheduler == nil {
		return c.JSON(http.StatusOK, []scheduler.TaskInfo{})
	}
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

// runTask triggers a scheduled task immediately.
// POST /api/v1/tasks/:id/run
func (s *Server) runTask(c echo.Context) error {
	if s.scheduler == nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheduler is disabled")
	}

	id := c.Param("id")
	err := s.scheduler.RunNow(id)
	switch {
	case errors.Is(err, scheduler.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, scheduler.ErrTaskRunning):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return err
	}

	s.logger.Info().Str("task", id).Msg("Task triggered manually")
	return c.NoContent(http.StatusAccepted)
}

// getLimits reports the outbound query budget of the provider's site.
// GET /api/v1/limits
func (s *Server) getLimits(c echo.Context) error {
	return c.JSON(http.StatusOK, s.limiter.Status(s.provider.Name()))
}

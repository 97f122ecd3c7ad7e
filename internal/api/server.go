// Package api exposes the provider operations to the host over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	apimw "github.com/toshokan/toshokan/internal/api/middleware"
	"github.com/toshokan/toshokan/internal/feedsync"
	"github.com/toshokan/toshokan/internal/indexer"
	"github.com/toshokan/toshokan/internal/indexer/ratelimit"
	"github.com/toshokan/toshokan/internal/indexer/types"
	"github.com/toshokan/toshokan/internal/scheduler"
)

// Provider is the set of host operations the API serves.
type Provider interface {
	Name() string
	Settings() types.ProviderSettings
	Search(ctx context.Context, opts types.SearchOptions) ([]types.TorrentRecord, error)
	GetLatest(ctx context.Context) []types.TorrentRecord
	GetTorrentMagnetLink(ctx context.Context, record *types.TorrentRecord) string
	SmartSearch(ctx context.Context, opts *types.SmartSearchOptions) []types.TorrentRecord
}

// Server handles HTTP requests for the provider API.
type Server struct {
	echo      *echo.Echo
	logger    zerolog.Logger
	provider  Provider
	feed      *feedsync.Service    // optional
	scheduler *scheduler.Scheduler // optional
	limiter   *ratelimit.Limiter   // optional
}

// Deps are the optional collaborators of the server. Nil members disable the
// routes that need them.
type Deps struct {
	Feed      *feedsync.Service
	Scheduler *scheduler.Scheduler
	Limiter   *ratelimit.Limiter
}

// NewServer creates a new API server.
func NewServer(provider Provider, deps Deps, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		logger:    logger.With().Str("component", "api").Logger(),
		provider:  provider,
		feed:      deps.Feed,
		scheduler: deps.Scheduler,
		limiter:   deps.Limiter,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(apimw.RequestID())
	s.echo.Use(apimw.SecurityHeaders())
	s.echo.Use(middleware.BodyLimit("1M"))
	s.echo.Use(s.requestLogger())
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := s.echo.Group("/api/v1")
	v1.GET("/settings", s.getSettings)
	v1.GET("/search", s.search)
	v1.GET("/latest", s.getLatest)
	v1.POST("/smart-search", s.smartSearch)
	v1.POST("/magnet", s.getMagnetLink)
	v1.GET("/feed", s.getFeed)
	v1.GET("/tasks", s.listTasks)
	v1.POST("/tasks/:id/run", s.runTask)
	v1.GET("/limits", s.getLimits)
}

// requestLogger logs each request through zerolog.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Debug()
			if v.Error != nil {
				event = s.logger.Warn().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("requestId", v.RequestID).
				Msg("HTTP request")
			return nil
		},
	})
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server; it blocks until the server stops.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// searchErrorStatus maps a provider error to the status returned to the host.
func searchErrorStatus(err error) int {
	switch indexer.GetErrorCode(err) {
	case indexer.ErrCodeSearch, indexer.ErrCodeNetwork:
		return http.StatusBadGateway
	case indexer.ErrCodeTemporary:
		return http.StatusTooManyRequests
	case indexer.ErrCodeParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

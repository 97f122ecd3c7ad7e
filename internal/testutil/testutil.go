// Package testutil provides shared helpers for tests that talk to a fake site.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger returns a debug logger that writes through t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// Request is one request received by a PageServer.
type Request struct {
	Path  string
	Query url.Values
}

// PageServer is an httptest server that records every request it receives.
type PageServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewPageServer starts a server delegating to handler. It is closed when the
// test finishes.
func NewPageServer(t *testing.T, handler http.Handler) *PageServer {
	t.Helper()

	ps := &PageServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.requests = append(ps.requests, Request{Path: r.URL.Path, Query: r.URL.Query()})
		ps.mu.Unlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(ps.Close)
	return ps
}

// Requests returns a copy of the requests seen so far.
func (ps *PageServer) Requests() []Request {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return append([]Request(nil), ps.requests...)
}

// HTMLPage serves body as an HTML document.
func HTMLPage(body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}

// Status answers every request with the given status code.
func Status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(code), code)
	}
}

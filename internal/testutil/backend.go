package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Backend is an httptest stand-in for the REST API, mounted under /api.
// Routes are "METHOD /path" patterns on an http.ServeMux; every request is recorded.
type Backend struct {
	Server *httptest.Server
	mux    *http.ServeMux

	mu       sync.Mutex
	requests []RecordedRequest
}

// RecordedRequest captures what the stub received.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

// NewBackend starts a stub backend that is closed when t ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{mux: http.NewServeMux()}
	b.Server = httptest.NewServer(http.StripPrefix("/api", http.HandlerFunc(b.serve)))
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL clients should be configured with.
func (b *Backend) URL() string { return b.Server.URL + "/api" }

// Handle registers a handler for pattern.
func (b *Backend) Handle(pattern string, h http.HandlerFunc) {
	b.mux.HandleFunc(pattern, h)
}

// Reply registers a handler that always answers with status and body.
func (b *Backend) Reply(pattern string, status int, body string) {
	b.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		WriteEnvelope(w, status, body)
	})
}

// ReplyData registers a handler answering {"success":true,"data":data}.
func (b *Backend) ReplyData(pattern string, data any) {
	b.Handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		raw, _ := json.Marshal(map[string]any{"success": true, "data": data})
		WriteEnvelope(w, http.StatusOK, string(raw))
	})
}

// Requests returns the requests seen so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request, or the zero value.
func (b *Backend) LastRequest() RecordedRequest {
	reqs := b.Requests()
	if len(reqs) == 0 {
		return RecordedRequest{}
	}
	return reqs[len(reqs)-1]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
	})
	b.mu.Unlock()
	b.mux.ServeHTTP(w, r)
}

// WriteEnvelope writes body as a JSON response.
func WriteEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, strings.TrimSpace(body))
}

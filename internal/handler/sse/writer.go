// Package sse writes Server-Sent-Event streams to web clients: one data
// event per content delta, a [DONE] sentinel at the end, and comment-line
// keepalives while the upstream model is thinking.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("response writer does not support streaming")

// Writer serializes SSE frames onto one HTTP response. Safe for concurrent
// use: deltas arrive on the request goroutine while keepalives tick on
// their own goroutine.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

// NewWriter wraps a ResponseWriter for SSE output. Headers are not written
// until Start, so callers can still send a plain JSON error for failures
// that happen before the first delta.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	return &Writer{w: w, flusher: flusher}, nil
}

// Start writes the SSE response headers. Idempotent.
func (s *Writer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

func (s *Writer) startLocked() {
	if s.started {
		return
	}
	s.w.Header().Set("Content-Type", "text/event-stream")
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("Connection", "keep-alive")
	s.w.Header().Set("X-Accel-Buffering", "no")
	s.w.WriteHeader(http.StatusOK)
	s.started = true
}

// Started reports whether SSE headers have been written.
func (s *Writer) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// SendJSON writes one `data:` event carrying the JSON encoding of v and
// flushes it. Starts the stream if it has not started yet.
func (s *Writer) SendJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode sse payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write sse event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// SendEvent writes a named event with a JSON payload. Used for the
// terminal error event once a stream has already started.
func (s *Writer) SendEvent(event string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode sse payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return fmt.Errorf("write sse event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// SendDone writes the `data: [DONE]` sentinel.
func (s *Writer) SendDone() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
	if _, err := fmt.Fprint(s.w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("write sse done: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteKeepAlive writes an SSE comment line and flushes. Comments are
// ignored by clients; they only keep proxies from timing the stream out.
// No-op before the stream starts.
func (s *Writer) WriteKeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}
	s.flusher.Flush()
	return nil
}

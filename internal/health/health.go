// Package health serves the database health probe.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"noteapp/internal/notes"
)

// Prober is the subset of the note store the probe needs.
type Prober interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	First(ctx context.Context) (*notes.Note, error)
}

// Healthy is the 200 body. Timestamp is the created_at of some note, or
// null when the table is empty.
type Healthy struct {
	Status    string  `json:"status"`
	Database  string  `json:"database"`
	Timestamp *string `json:"timestamp"`
}

// Unhealthy is the 503 body.
type Unhealthy struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error"`
}

type Handler struct {
	probe Prober
	log   *slog.Logger
}

func NewHandler(probe Prober, log *slog.Logger) *Handler {
	return &Handler{probe: probe, log: log}
}

// ServeHTTP answers 200 when the database is reachable and the notes table
// can be queried, otherwise 503. Nothing escapes this handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ts, err := h.check(r.Context())
	if err != nil {
		h.log.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, Unhealthy{Status: "unhealthy", Database: "disconnected", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, Healthy{Status: "healthy", Database: "connected", Timestamp: ts})
}

func (h *Handler) check(ctx context.Context) (ts *string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ts, err = nil, fmt.Errorf("panic: %v", rec)
		}
	}()

	if err := h.probe.Ping(ctx); err != nil {
		return nil, err
	}
	if _, err := h.probe.Count(ctx); err != nil {
		return nil, err
	}
	note, err := h.probe.First(ctx)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}
	s := notes.FormatTimestamp(note.CreatedAt)
	return &s, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

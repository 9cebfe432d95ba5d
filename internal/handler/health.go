package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health.
type HealthHandler struct {
	db    Pinger
	count func(ctx context.Context) (int, error)
}

// NewHealthHandler creates a HealthHandler. count returns the ledger size.
func NewHealthHandler(db Pinger, count func(ctx context.Context) (int, error)) *HealthHandler {
	return &HealthHandler{db: db, count: count}
}

// HandleHealthz responds with {"status":"ok","certificates":N}, or 503 when
// the database is unreachable.
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check ping", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	n, err := h.count(r.Context())
	if err != nil {
		slog.Error("health check count", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "certificates": n})
}

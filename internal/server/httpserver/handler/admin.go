// Package handler provides HTTP request handlers for pollrelay.
package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
	"github.com/yndnr/pollrelay-go/internal/infra/buildinfo"
)

// handleAdminStatus handles GET /admin/v1/status.
func (h *Handler) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.Stats()

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"version":          buildinfo.Version,
		"active_sessions":  stats.ActiveSessions,
		"pending_messages": stats.PendingMessages,
		"timeout_ms":       stats.Timeout.Milliseconds(),
		"uptime_seconds":   int64(stats.Uptime.Seconds()),
	})
}

// handleAdminSessions handles GET /admin/v1/sessions.
func (h *Handler) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	views := h.engine.Sessions()
	sort.Slice(views, func(i, j int) bool {
		return views[i].ID < views[j].ID
	})

	h.writeJSON(w, r, http.StatusOK, SessionListResponse{
		Sessions: views,
		Total:    len(views),
	})
}

// handleAdminBroadcast handles POST /admin/v1/broadcast.
func (h *Handler) handleAdminBroadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrBadRequest.Code, "invalid request body", nil)
		return
	}

	payload, err := domain.DecodePayload(req.Message)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	exclude := make([]domain.Class, 0, len(req.Exclude))
	for _, s := range req.Exclude {
		c, err := domain.ParseClass(s)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		exclude = append(exclude, c)
	}

	count, err := h.engine.Broadcast(payload, domain.NewClassSet(exclude...))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, BroadcastResponse{Recipients: count})
}

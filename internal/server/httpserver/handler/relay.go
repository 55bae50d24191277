// Package handler provides HTTP request handlers for pollrelay.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
)

// handleRegister handles POST /v1/register.
//
// Registration is the only client endpoint without credentials. The
// returned secret is shown exactly once; subsequent requests present it
// in the X-Relay-Secret header.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrBadRequest.Code, "invalid request body", nil)
		return
	}

	if req.ID == "" {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrMissingArgument.Code, "id is required", nil)
		return
	}

	class := domain.ClassPublic
	if req.Class != "" {
		parsed, err := domain.ParseClass(req.Class)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		class = parsed
	}

	secret, err := h.engine.Register(req.ID, class)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, RegisterResponse{
		SessionID: req.ID,
		Secret:    secret,
		Class:     class.String(),
		TimeoutMS: h.engine.Timeout().Milliseconds(),
	})
}

// handlePing handles POST /v1/ping.
//
// The auth middleware already refreshed the liveness deadline; the
// handler only confirms the session is still registered.
func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]int{"pending": sess.PendingCount()})
}

// handleFetchMessages handles GET /v1/messages.
//
// Returns the full unacknowledged outbox in insertion order. Messages
// stay queued until acknowledged, so an unacked message reappears in
// every fetch.
func (h *Handler) handleFetchMessages(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	msgs := h.engine.Pending(sess)
	h.writeJSON(w, r, http.StatusOK, FetchMessagesResponse{Messages: msgs})
}

// handlePostMessages handles POST /v1/messages.
//
// Inbound messages are handed to the application layer and never
// queued: the 200 means "received", not "processed".
func (h *Handler) handlePostMessages(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var req PostMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrBadRequest.Code, "invalid request body", nil)
		return
	}

	encoded := make([]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		encoded = append(encoded, m.Message)
	}

	if err := h.engine.ReceiveInbound(sess, encoded); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]int{"received": len(encoded)})
}

// handleAckMessages handles POST /v1/messages/ack.
//
// Unknown ids are ignored so a retried acknowledgment is safe.
func (h *Handler) handleAckMessages(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var req AckMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest,
			domain.ErrBadRequest.Code, "invalid request body", nil)
		return
	}

	before := sess.PendingCount()
	h.engine.Acknowledge(sess, req.IDs)

	h.writeJSON(w, r, http.StatusOK, AckMessagesResponse{
		Acked: before - sess.PendingCount(),
	})
}

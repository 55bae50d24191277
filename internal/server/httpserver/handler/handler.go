// Package handler provides HTTP request handlers for pollrelay.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
	"github.com/yndnr/pollrelay-go/internal/core/service"
	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
)

type contextKey string

// contextKeySession carries the authenticated session, placed by the
// auth middleware before the handler runs.
const contextKeySession contextKey = "relay_session"

// ContextWithSession returns a context carrying the authenticated session.
func ContextWithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, contextKeySession, sess)
}

// SessionFromContext retrieves the authenticated session from context.
func SessionFromContext(ctx context.Context) *domain.Session {
	if sess, ok := ctx.Value(contextKeySession).(*domain.Session); ok {
		return sess
	}
	return nil
}

// Handler is the main HTTP handler that routes requests to appropriate
// handlers.
type Handler struct {
	engine *service.Engine
	logger logger.Logger
	mux    *http.ServeMux
}

// New creates a new Handler backed by the given session engine.
func New(engine *service.Engine, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		engine: engine,
		logger: log,
		mux:    http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints (no auth required)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Client endpoints
	h.mux.HandleFunc("POST /v1/register", h.handleRegister)
	h.mux.HandleFunc("POST /v1/ping", h.handlePing)
	h.mux.HandleFunc("GET /v1/messages", h.handleFetchMessages)
	h.mux.HandleFunc("POST /v1/messages", h.handlePostMessages)
	h.mux.HandleFunc("POST /v1/messages/ack", h.handleAckMessages)

	// Admin endpoints
	h.mux.HandleFunc("GET /admin/v1/status", h.handleAdminStatus)
	h.mux.HandleFunc("GET /admin/v1/sessions", h.handleAdminSessions)
	h.mux.HandleFunc("POST /admin/v1/broadcast", h.handleAdminBroadcast)
}

// session returns the authenticated session for the request, or writes
// an error response when the auth middleware did not run.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *domain.Session {
	sess := SessionFromContext(r.Context())
	if sess == nil {
		h.writeError(w, r, http.StatusUnauthorized,
			domain.ErrMissingCredentials.Code, "credentials not provided", nil)
	}
	return sess
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts request ID from context or header.
func getRequestID(r *http.Request) string {
	if reqID := logger.RequestIDFromContext(r.Context()); reqID != "" {
		return reqID
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts engine errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsRelayError(err, "") {
		code := domain.ErrorCode(err)
		status := errorCodeToHTTPStatus(code)
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError,
		domain.ErrInternalServer.Code, "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4000"), strings.HasPrefix(code, "PR-ARG-"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "PR-SYS-5"):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

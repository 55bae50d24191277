// Package localserver provides the local management server.
package localserver

import (
	"encoding/json"
	"io"

	"github.com/yndnr/pollrelay-go/internal/core/service"
	"github.com/yndnr/pollrelay-go/internal/infra/buildinfo"
	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
)

// Handler handles local management commands.
type Handler struct {
	engine *service.Engine
}

// NewHandler creates a new Handler backed by the session engine.
func NewHandler(engine *service.Engine) *Handler {
	return &Handler{engine: engine}
}

// Execute executes a local management command and writes one JSON
// response line.
func (h *Handler) Execute(w io.Writer, cmd string, args []string) error {
	switch cmd {
	case "status":
		return h.handleStatus(w)
	case "sessions":
		return h.handleSessions(w)
	case "loglevel", "reload":
		return h.handleLogLevel(w, args)
	case "ping", "quit":
		return writeLine(w, map[string]string{"result": "ok"})
	default:
		return writeLine(w, map[string]string{"error": "unknown command: " + cmd})
	}
}

func (h *Handler) handleStatus(w io.Writer) error {
	stats := h.engine.Stats()
	return writeLine(w, map[string]any{
		"version":          buildinfo.Version,
		"active_sessions":  stats.ActiveSessions,
		"pending_messages": stats.PendingMessages,
		"timeout_ms":       stats.Timeout.Milliseconds(),
		"uptime_seconds":   int64(stats.Uptime.Seconds()),
		"log_level":        logger.GetLevel(),
	})
}

func (h *Handler) handleSessions(w io.Writer) error {
	return writeLine(w, map[string]any{
		"sessions": h.engine.Sessions(),
	})
}

// handleLogLevel reports the current level, or sets it when an
// argument is given.
func (h *Handler) handleLogLevel(w io.Writer, args []string) error {
	if len(args) > 0 {
		logger.SetLevel(args[0])
	}
	return writeLine(w, map[string]string{"log_level": logger.GetLevel()})
}

func writeLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

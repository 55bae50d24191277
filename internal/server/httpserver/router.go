// Package httpserver provides the HTTP/HTTPS server for pollrelay.
package httpserver

import (
	"net/http"

	"github.com/yndnr/pollrelay-go/internal/core/service"
	"github.com/yndnr/pollrelay-go/internal/server/httpserver/handler"
	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
	"github.com/yndnr/pollrelay-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Engine is the session engine serving all relay operations.
	Engine *service.Engine

	// Metrics is the registry backing /metrics; nil disables it.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger

	// AdminToken protects /admin/v1; empty disables the admin surface.
	AdminToken string

	// RateLimit is the per-IP request budget (requests/second, 0 = off).
	RateLimit int

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit:   200,
		EnableAudit: true,
	}
}

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	h := handler.New(cfg.Engine, log)

	base := []Middleware{RequestID(), Recover(log)}
	if cfg.RateLimit > 0 {
		base = append(base, RateLimit(cfg.RateLimit))
	}
	if cfg.EnableAudit {
		base = append(base, Audit(log, cfg.Metrics))
	}

	// Registration is the only client endpoint without credentials;
	// everything else under /v1 authenticates (and thereby refreshes
	// liveness) before the handler runs.
	openChain := base
	authedChain := append(append([]Middleware{}, base...), Auth(cfg.Engine))
	adminChain := append(append([]Middleware{}, base...), AdminAuth(cfg.AdminToken))

	mux := http.NewServeMux()

	mux.Handle("GET /health", Chain(h, openChain...))
	mux.Handle("GET /ready", Chain(h, openChain...))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), RequestID(), Recover(log)))
	}

	mux.Handle("POST /v1/register", Chain(h, openChain...))

	mux.Handle("POST /v1/ping", Chain(h, authedChain...))
	mux.Handle("GET /v1/messages", Chain(h, authedChain...))
	mux.Handle("POST /v1/messages", Chain(h, authedChain...))
	mux.Handle("POST /v1/messages/ack", Chain(h, authedChain...))

	mux.Handle("GET /admin/v1/status", Chain(h, adminChain...))
	mux.Handle("GET /admin/v1/sessions", Chain(h, adminChain...))
	mux.Handle("POST /admin/v1/broadcast", Chain(h, adminChain...))

	return mux
}

// Package service implements the session engine for pollrelay.
package service

import (
	"sync"
	"time"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
	"github.com/yndnr/pollrelay-go/internal/telemetry/metric"
	"github.com/yndnr/pollrelay-go/pkg/cmap"
	"github.com/yndnr/pollrelay-go/pkg/token"
)

// DefaultTimeout is the liveness window applied when none is configured.
const DefaultTimeout = 5 * time.Second

// Events is the notification surface the engine raises to its host.
//
// Callbacks are invoked synchronously from the request path (Connect,
// Message) or from the expiry timer goroutine (Disconnect); hosts that
// need to block should hand off to their own goroutine. Nil callbacks
// are skipped: an unsubscribed inbound message is simply lost, there
// is no server-side queue for the inbound direction.
type Events struct {
	Connect    func(s *domain.Session)
	Disconnect func(s *domain.Session)
	Message    func(s *domain.Session, payload []byte)
}

// Engine tracks connected clients and relays messages between them and
// the hosting application.
type Engine struct {
	sessions *cmap.Map[*domain.Session]
	timeout  time.Duration
	events   Events
	log      logger.Logger
	metrics  *metric.Registry

	// Scheduled-task table: one pending expiry timer per session id.
	// Refresh is cancel-then-reschedule; eviction removes the entry.
	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool

	startedAt time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvents registers the host notification callbacks.
func WithEvents(ev Events) Option {
	return func(e *Engine) {
		e.events = ev
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine with the given liveness timeout. The timeout is
// fixed for the engine's lifetime; it is not renegotiated per session.
func New(timeout time.Duration, opts ...Option) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	e := &Engine{
		sessions:  cmap.New[*domain.Session](),
		timeout:   timeout,
		timers:    make(map[string]*time.Timer),
		log:       logger.Default(),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the configured liveness window.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Register creates a session for a client-chosen id and returns the
// raw secret, which is never stored and never returned again.
func (e *Engine) Register(id string, class domain.Class) (string, error) {
	if err := domain.ValidateID(id); err != nil {
		return "", err
	}
	if !class.Valid() {
		return "", domain.ErrInvalidArgument.WithDetails("unknown class")
	}

	secret, err := token.NewSecret()
	if err != nil {
		return "", domain.ErrInternalServer.WithCause(err)
	}

	sess := domain.NewSession(id, class, token.Hash(secret), e.timeout)
	if !e.sessions.SetIfAbsent(id, sess) {
		return "", domain.ErrSessionExists.WithDetails("id " + id)
	}
	e.armTimer(id, e.timeout)

	if e.metrics != nil {
		e.metrics.SessionsRegistered.Inc()
		e.metrics.SessionsActive.Set(float64(e.sessions.Count()))
	}
	e.log.Info("session registered", "session_id", id, "class", class.String())

	if e.events.Connect != nil {
		e.events.Connect(sess)
	}
	return secret, nil
}

// Authenticate resolves a session from presented credentials. It does
// not refresh the liveness deadline; liveness-bearing callers invoke
// Touch explicitly after a successful authenticate.
func (e *Engine) Authenticate(id, secret string) (*domain.Session, error) {
	if id == "" || secret == "" {
		return nil, domain.ErrMissingCredentials
	}

	sess, ok := e.sessions.Get(id)
	if !ok {
		return nil, domain.ErrUnknownSession.WithDetails("id " + id)
	}
	if !token.Verify(secret, sess.SecretHash) {
		return nil, domain.ErrInvalidSecret
	}
	return sess, nil
}

// Touch pushes the session deadline to now+timeout and re-arms its
// expiry timer. Touching an already-evicted session is a no-op.
func (e *Engine) Touch(id string) {
	sess, ok := e.sessions.Get(id)
	if !ok {
		return
	}
	sess.ExtendDeadline(e.timeout)
	e.armTimer(id, e.timeout)
}

// Evict removes a session and raises the disconnect notification with
// the session snapshot. Idempotent: evicting an absent id does nothing.
func (e *Engine) Evict(id string) {
	e.mu.Lock()
	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}
	e.mu.Unlock()

	sess, ok := e.sessions.Pop(id)
	if !ok {
		return
	}

	if e.metrics != nil {
		e.metrics.SessionsEvicted.Inc()
		e.metrics.SessionsActive.Set(float64(e.sessions.Count()))
	}
	e.log.Info("session evicted",
		"session_id", id,
		"pending", sess.PendingCount())

	if e.events.Disconnect != nil {
		e.events.Disconnect(sess)
	}
}

// Session returns the active session for an id, if any.
func (e *Engine) Session(id string) (*domain.Session, bool) {
	return e.sessions.Get(id)
}

// armTimer schedules (or reschedules) the expiry timer for a session.
func (e *Engine) armTimer(id string, d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if t, ok := e.timers[id]; ok {
		t.Stop()
	}
	e.timers[id] = time.AfterFunc(d, func() {
		e.expire(id)
	})
}

// expire runs when a session's timer fires. A refresh that raced the
// timer leaves the deadline in the future; in that case the timer is
// re-armed for the remainder instead of evicting.
func (e *Engine) expire(id string) {
	sess, ok := e.sessions.Get(id)
	if !ok {
		e.mu.Lock()
		delete(e.timers, id)
		e.mu.Unlock()
		return
	}

	now := time.Now()
	if !sess.Expired(now) {
		remaining := sess.Deadline().Sub(now)
		if remaining < time.Millisecond {
			remaining = time.Millisecond
		}
		e.armTimer(id, remaining)
		return
	}

	e.log.Debug("liveness deadline elapsed", "session_id", id)
	e.Evict(id)
}

// Stats is a point-in-time summary of the engine.
type Stats struct {
	ActiveSessions  int           `json:"active_sessions"`
	PendingMessages int           `json:"pending_messages"`
	Timeout         time.Duration `json:"timeout"`
	Uptime          time.Duration `json:"uptime"`
}

// Stats summarizes the engine state for the admin surface.
func (e *Engine) Stats() Stats {
	pending := 0
	e.sessions.Range(func(_ string, s *domain.Session) bool {
		pending += s.PendingCount()
		return true
	})
	return Stats{
		ActiveSessions:  e.sessions.Count(),
		PendingMessages: pending,
		Timeout:         e.timeout,
		Uptime:          time.Since(e.startedAt),
	}
}

// Sessions returns snapshots of all active sessions.
func (e *Engine) Sessions() []domain.View {
	views := make([]domain.View, 0, e.sessions.Count())
	e.sessions.Range(func(_ string, s *domain.Session) bool {
		views = append(views, s.Snapshot())
		return true
	})
	return views
}

// Close stops all pending timers. Sessions are not persisted; the
// in-memory registry simply ends with the process.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id, t := range e.timers {
		t.Stop()
		delete(e.timers, id)
	}
}

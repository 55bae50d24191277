// Package domain defines the core domain models for pollrelay.
package domain

import (
	"sync"
	"time"
)

// MaxSessionIDLength bounds the caller-supplied session identifier.
const MaxSessionIDLength = 128

// Session represents one connected client.
//
// Connectivity is inferred, not observed: a session is alive while its
// deadline lies in the future, and every authenticated liveness request
// pushes the deadline forward. The session owns its outbox; outbox and
// deadline mutation are serialized by the session mutex so concurrent
// handlers for the same client cannot interleave partial updates.
type Session struct {
	// ID is the caller-supplied unique identifier.
	ID string `json:"id"`

	// Class categorizes the client for broadcast filtering.
	Class Class `json:"class"`

	// SecretHash is the SHA-256 hash of the session secret. The raw
	// secret is returned once at registration and never stored.
	SecretHash string `json:"-"`

	// CreatedAt is the registration timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`

	mu       sync.Mutex
	deadline int64                      // Unix milliseconds
	outbox   map[string]*PendingMessage // message id -> message
	order    []string                   // insertion order of outbox ids
}

// NewSession creates a session with an armed deadline.
func NewSession(id string, class Class, secretHash string, timeout time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Class:      class,
		SecretHash: secretHash,
		CreatedAt:  now.UnixMilli(),
		deadline:   now.Add(timeout).UnixMilli(),
		outbox:     make(map[string]*PendingMessage),
	}
}

// Deadline returns the instant at which the session is considered dead
// absent further contact.
func (s *Session) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.UnixMilli(s.deadline)
}

// ExtendDeadline pushes the deadline to now+timeout. The deadline only
// ever moves forward; a stale extension never shortens it.
func (s *Session) ExtendDeadline(timeout time.Duration) time.Time {
	next := time.Now().Add(timeout).UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	if next > s.deadline {
		s.deadline = next
	}
	return time.UnixMilli(s.deadline)
}

// Expired reports whether the deadline has elapsed.
func (s *Session) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.UnixMilli() > s.deadline
}

// Enqueue stores a message in the outbox.
func (s *Session) Enqueue(msg *PendingMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox[msg.ID] = msg
	s.order = append(s.order, msg.ID)
}

// Pending returns a snapshot of all pending messages in insertion order.
// Messages remain pending until explicitly acknowledged.
func (s *Session) Pending() []*PendingMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]*PendingMessage, 0, len(s.outbox))
	for _, id := range s.order {
		if msg, ok := s.outbox[id]; ok {
			msgs = append(msgs, msg.Clone())
		}
	}
	return msgs
}

// Acknowledge removes the named messages from the outbox and returns
// the number actually removed. Unknown ids are silently ignored, so a
// retried acknowledgment has no further effect.
func (s *Session) Acknowledge(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, ok := s.outbox[id]; ok {
			delete(s.outbox, id)
			removed++
		}
	}
	if removed > 0 {
		s.compactOrder()
	}
	return removed
}

// compactOrder drops acknowledged ids from the enumeration order.
// Caller must hold s.mu.
func (s *Session) compactOrder() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.outbox[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

// PendingCount returns the number of unacknowledged messages.
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outbox)
}

// View is the externally visible snapshot of a session, used by the
// admin surface and the disconnect notification.
type View struct {
	ID        string    `json:"id"`
	Class     string    `json:"class"`
	CreatedAt time.Time `json:"created_at"`
	Deadline  time.Time `json:"deadline"`
	Pending   int       `json:"pending"`
}

// Snapshot returns a point-in-time view of the session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:        s.ID,
		Class:     s.Class.String(),
		CreatedAt: time.UnixMilli(s.CreatedAt),
		Deadline:  time.UnixMilli(s.deadline),
		Pending:   len(s.outbox),
	}
}

// ValidateID checks a caller-supplied session identifier.
func ValidateID(id string) error {
	if id == "" {
		return ErrMissingArgument.WithDetails("id is required")
	}
	if len(id) > MaxSessionIDLength {
		return ErrInvalidArgument.WithDetails("id exceeds 128 characters")
	}
	return nil
}

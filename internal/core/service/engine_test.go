package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
)

func newTestEngine(t *testing.T, timeout time.Duration, opts ...Option) *Engine {
	t.Helper()
	e := New(timeout, opts...)
	t.Cleanup(e.Close)
	return e
}

func TestRegister(t *testing.T) {
	e := newTestEngine(t, time.Minute)

	secret, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	sess, ok := e.Session("client-a")
	require.True(t, ok)
	assert.Equal(t, domain.ClassPublic, sess.Class)
	assert.NotEqual(t, secret, sess.SecretHash, "raw secret must not be stored")
}

func TestRegister_DuplicateID(t *testing.T) {
	e := newTestEngine(t, time.Minute)

	first, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	_, err = e.Register("client-a", domain.ClassPrivate)
	require.Error(t, err)
	assert.True(t, domain.IsRelayError(err, "PR-SESS-4090"))

	// The original session is untouched.
	sess, ok := e.Session("client-a")
	require.True(t, ok)
	assert.Equal(t, domain.ClassPublic, sess.Class)

	authed, err := e.Authenticate("client-a", first)
	require.NoError(t, err)
	assert.Equal(t, sess, authed)
}

func TestRegister_Validation(t *testing.T) {
	e := newTestEngine(t, time.Minute)

	_, err := e.Register("", domain.ClassPublic)
	assert.True(t, domain.IsRelayError(err, "PR-ARG-1002"))

	_, err = e.Register("client-a", domain.Class(7))
	assert.True(t, domain.IsRelayError(err, "PR-ARG-1001"))
}

func TestRegister_ConnectEvent(t *testing.T) {
	var connected atomic.Int32
	e := newTestEngine(t, time.Minute, WithEvents(Events{
		Connect: func(s *domain.Session) {
			connected.Add(1)
			assert.Equal(t, "client-a", s.ID)
		},
	}))

	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)
	assert.Equal(t, int32(1), connected.Load())
}

func TestAuthenticate(t *testing.T) {
	e := newTestEngine(t, time.Minute)
	secret, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	tests := []struct {
		name     string
		id       string
		secret   string
		wantCode string
	}{
		{"valid", "client-a", secret, ""},
		{"missing id", "", secret, "PR-AUTH-4010"},
		{"missing secret", "client-a", "", "PR-AUTH-4010"},
		{"unknown id", "client-b", secret, "PR-SESS-4040"},
		{"wrong secret", "client-a", "nope", "PR-AUTH-4011"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := e.Authenticate(tt.id, tt.secret)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "client-a", sess.ID)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsRelayError(err, tt.wantCode),
				"got %v, want code %s", err, tt.wantCode)
		})
	}
}

func TestEvict_Idempotent(t *testing.T) {
	var disconnects atomic.Int32
	e := newTestEngine(t, time.Minute, WithEvents(Events{
		Disconnect: func(*domain.Session) { disconnects.Add(1) },
	}))

	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	e.Evict("client-a")
	e.Evict("client-a")
	e.Evict("never-registered")

	_, ok := e.Session("client-a")
	assert.False(t, ok)
	assert.Equal(t, int32(1), disconnects.Load(), "exactly one disconnect notification")
}

func TestLiveness_EvictionFiresOnce(t *testing.T) {
	var mu sync.Mutex
	var gone []string
	e := newTestEngine(t, 30*time.Millisecond, WithEvents(Events{
		Disconnect: func(s *domain.Session) {
			mu.Lock()
			gone = append(gone, s.ID)
			mu.Unlock()
		},
	}))

	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := e.Session("client-a")
		return !ok
	}, time.Second, 5*time.Millisecond, "session should be evicted after the timeout")

	// Allow any spurious second firing to surface.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"client-a"}, gone)
}

func TestLiveness_TouchPreventsEviction(t *testing.T) {
	e := newTestEngine(t, 60*time.Millisecond)

	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	// Keep touching well inside the window.
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		e.Touch("client-a")
		time.Sleep(15 * time.Millisecond)
	}

	_, ok := e.Session("client-a")
	assert.True(t, ok, "touched session must not be evicted")

	// Once touches stop, eviction follows.
	require.Eventually(t, func() bool {
		_, ok := e.Session("client-a")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestTouch_EvictedSessionIsNoop(t *testing.T) {
	e := newTestEngine(t, time.Minute)
	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	e.Evict("client-a")
	e.Touch("client-a")

	_, ok := e.Session("client-a")
	assert.False(t, ok)
}

func TestEvictedSession_PendingMessagesDropped(t *testing.T) {
	var lastSnapshot *domain.Session
	e := newTestEngine(t, time.Minute, WithEvents(Events{
		Disconnect: func(s *domain.Session) { lastSnapshot = s },
	}))

	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)
	sess, _ := e.Session("client-a")

	_, err = e.Send(sess, []byte("orphaned"))
	require.NoError(t, err)

	e.Evict("client-a")

	// The disconnect notification carries the final snapshot, outbox included.
	require.NotNil(t, lastSnapshot)
	assert.Equal(t, 1, lastSnapshot.PendingCount())

	// The id is free for re-registration with an empty mailbox.
	_, err = e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)
	fresh, _ := e.Session("client-a")
	assert.Equal(t, 0, fresh.PendingCount())
}

func TestStats(t *testing.T) {
	e := newTestEngine(t, time.Minute)

	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)
	_, err = e.Register("client-b", domain.ClassPrivate)
	require.NoError(t, err)

	sess, _ := e.Session("client-a")
	_, err = e.Send(sess, []byte("one"))
	require.NoError(t, err)

	stats := e.Stats()
	assert.Equal(t, 2, stats.ActiveSessions)
	assert.Equal(t, 1, stats.PendingMessages)
	assert.Equal(t, time.Minute, stats.Timeout)

	assert.Len(t, e.Sessions(), 2)
}

func TestClose_StopsTimers(t *testing.T) {
	e := New(20 * time.Millisecond)
	_, err := e.Register("client-a", domain.ClassPublic)
	require.NoError(t, err)

	e.Close()
	time.Sleep(60 * time.Millisecond)

	// With timers stopped, no eviction takes place.
	_, ok := e.Session("client-a")
	assert.True(t, ok)
}

func TestConcurrentRegistration(t *testing.T) {
	e := newTestEngine(t, time.Minute)

	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Register("contested", domain.ClassPublic); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one registration must win")
}

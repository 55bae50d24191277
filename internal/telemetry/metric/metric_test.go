package metric

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	reg.SessionsRegistered.Inc()
	reg.SessionsActive.Set(3)
	reg.MessagesEnqueued.Add(5)
	reg.RequestDuration.WithLabelValues("/v1/ping", "200").Observe(0.01)

	families, err := reg.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["pollrelay_sessions_registered_total"])
	assert.True(t, names["pollrelay_sessions_active"])
	assert.True(t, names["pollrelay_messages_enqueued_total"])
	assert.True(t, names["pollrelay_http_request_duration_seconds"])
}

func TestRegistry_Isolated(t *testing.T) {
	// Two registries must not collide on metric registration.
	a := NewRegistry()
	b := NewRegistry()
	a.SessionsRegistered.Inc()
	b.SessionsRegistered.Inc()
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	reg.SessionsEvicted.Inc()

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "pollrelay_sessions_evicted_total 1")
}

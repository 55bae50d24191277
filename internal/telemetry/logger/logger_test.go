package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level, format string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: format, Output: &buf})
	require.NoError(t, err)
	return l, &buf
}

func TestNew_JSONOutput(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Info("session registered", "session_id", "client-a")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session registered", entry["msg"])
	assert.Equal(t, "client-a", entry["session_id"])
}

func TestNew_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(t, "warn", "json")

	l.Info("should be dropped")
	assert.Zero(t, buf.Len())

	l.Warn("should appear")
	assert.NotZero(t, buf.Len())
}

func TestRedaction(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.Info("registration complete",
		"session_id", "client-a",
		"secret", "super-secret-value",
		"admin_token", "also-secret")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "client-a", entry["session_id"])
	assert.Equal(t, redactedValue, entry["secret"])
	assert.Equal(t, redactedValue, entry["admin_token"])
	assert.NotContains(t, buf.String(), "super-secret-value")
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"secret", "Secret", "admin_token", "authorization", "password"} {
		assert.True(t, IsSensitiveKey(key), "key %q", key)
	}
	for _, key := range []string{"session_id", "class", "deadline"} {
		assert.False(t, IsSensitiveKey(key), "key %q", key)
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	SetLevel("debug")
	defer SetLevel("info")
	assert.Equal(t, "debug", GetLevel())

	l.Debug("now visible")
	assert.NotZero(t, buf.Len())
}

func TestWith(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	l.With("component", "engine").Info("started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine", entry["component"])
}

func TestContextPropagation(t *testing.T) {
	l, buf := newBufferLogger(t, "info", "json")

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-123")

	L(ctx).Info("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestRequestIDFromContext_Absent(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

package command

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(data any) map[string]any {
	return map[string]any{
		"code":    "OK",
		"message": "Success",
		"data":    data,
	}
}

func TestStatusCommandHitsAdminAPI(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Admin-Token")
		json.NewEncoder(w).Encode(envelope(map[string]any{
			"version":          "dev",
			"active_sessions":  1,
			"pending_messages": 0,
			"timeout_ms":       5000,
			"uptime_seconds":   12,
		}))
	}))
	defer srv.Close()

	err := App().Run([]string{
		"pollrelay-cli", "--server", srv.URL, "--admin-token", "tok", "--output", "json",
		"status",
	})
	require.NoError(t, err)

	assert.Equal(t, "/admin/v1/status", gotPath)
	assert.Equal(t, "tok", gotToken)
}

func TestSessionsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/v1/sessions", r.URL.Path)
		json.NewEncoder(w).Encode(envelope(map[string]any{
			"sessions": []map[string]any{
				{"id": "client-1", "class": "public", "pending": 2},
			},
			"total": 1,
		}))
	}))
	defer srv.Close()

	err := App().Run([]string{
		"pollrelay-cli", "--server", srv.URL, "sessions",
	})
	require.NoError(t, err)
}

func TestBroadcastCommand(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/v1/broadcast", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(envelope(map[string]int{"recipients": 3}))
	}))
	defer srv.Close()

	err := App().Run([]string{
		"pollrelay-cli", "--server", srv.URL,
		"broadcast", "--exclude", "private", "hello world",
	})
	require.NoError(t, err)

	// The message travels base64-encoded.
	assert.Equal(t, "aGVsbG8gd29ybGQ=", gotBody["message"])
	assert.Equal(t, []any{"private"}, gotBody["exclude"])
}

func TestBroadcastRequiresMessage(t *testing.T) {
	err := App().Run([]string{"pollrelay-cli", "broadcast"})
	assert.Error(t, err)
}

func TestCommandSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "PR-ADMIN-4030",
			"message": "admin token required",
		})
	}))
	defer srv.Close()

	err := App().Run([]string{"pollrelay-cli", "--server", srv.URL, "sessions"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PR-ADMIN-4030")
}

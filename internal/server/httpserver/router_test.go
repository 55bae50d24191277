package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/pollrelay-go/internal/core/domain"
	"github.com/yndnr/pollrelay-go/internal/core/service"
	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
	"github.com/yndnr/pollrelay-go/internal/telemetry/metric"
)

func testLogger() logger.Logger {
	l, _ := logger.New(logger.Config{Level: "error", Format: "json", Output: io.Discard})
	return l
}

func testRouter(t *testing.T, engine *service.Engine) http.Handler {
	t.Helper()
	return NewRouter(&RouterConfig{
		Engine:     engine,
		Metrics:    metric.NewRegistry(),
		Logger:     testLogger(),
		AdminToken: "test-admin-token",
	})
}

type envelope struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func register(t *testing.T, router http.Handler, id, class string) string {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/v1/register",
		map[string]string{"id": id, "class": class}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Secret string `json:"secret"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Secret)
	return resp.Secret
}

func authHeaders(id, secret string) map[string]string {
	return map[string]string{
		HeaderRelayID:     id,
		HeaderRelaySecret: secret,
	}
}

func TestRegisterConflict(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	register(t, router, "client-1", "public")

	rec, env := doJSON(t, router, http.MethodPost, "/v1/register",
		map[string]string{"id": "client-1"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.ErrSessionExists.Code, env.Code)
}

func TestRegisterValidation(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/register",
		map[string]string{"class": "public"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/register",
		map[string]string{"id": "client-1", "class": "imaginary"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessageRoundTrip(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	secret := register(t, router, "client-1", "public")
	headers := authHeaders("client-1", secret)

	sess, ok := engine.Session("client-1")
	require.True(t, ok)
	_, err := engine.Send(sess, []byte("hello"))
	require.NoError(t, err)

	// Fetch returns the pending message.
	rec, env := doJSON(t, router, http.MethodGet, "/v1/messages", nil, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetch struct {
		Messages []*domain.PendingMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fetch))
	require.Len(t, fetch.Messages, 1)

	payload, err := fetch.Messages[0].DecodedPayload()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)

	// Unacked messages are redelivered.
	_, env = doJSON(t, router, http.MethodGet, "/v1/messages", nil, headers)
	require.NoError(t, json.Unmarshal(env.Data, &fetch))
	require.Len(t, fetch.Messages, 1)

	// Acknowledge and the mailbox drains.
	rec, _ = doJSON(t, router, http.MethodPost, "/v1/messages/ack",
		map[string][]string{"ids": {fetch.Messages[0].ID}}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = doJSON(t, router, http.MethodGet, "/v1/messages", nil, headers)
	require.NoError(t, json.Unmarshal(env.Data, &fetch))
	assert.Empty(t, fetch.Messages)
}

func TestInboundMessages(t *testing.T) {
	var received [][]byte
	engine := service.New(time.Minute, service.WithEvents(service.Events{
		Message: func(_ *domain.Session, payload []byte) {
			received = append(received, payload)
		},
	}))
	defer engine.Close()

	router := testRouter(t, engine)
	secret := register(t, router, "client-1", "public")
	headers := authHeaders("client-1", secret)

	body := map[string]any{
		"messages": []map[string]string{
			{"message": domain.EncodePayload([]byte("one"))},
			{"message": domain.EncodePayload([]byte("two"))},
		},
	}
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/messages", body, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, received, 2)
	assert.Equal(t, []byte("one"), received[0])
	assert.Equal(t, []byte("two"), received[1])
}

func TestInboundRejectsMalformedBatch(t *testing.T) {
	var received int
	engine := service.New(time.Minute, service.WithEvents(service.Events{
		Message: func(_ *domain.Session, _ []byte) { received++ },
	}))
	defer engine.Close()

	router := testRouter(t, engine)
	secret := register(t, router, "client-1", "public")

	body := map[string]any{
		"messages": []map[string]string{
			{"message": domain.EncodePayload([]byte("ok"))},
			{"message": "not base64!!"},
		},
	}
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/messages", body,
		authHeaders("client-1", secret))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, received)
}

func TestPingRefreshesLiveness(t *testing.T) {
	engine := service.New(150 * time.Millisecond)
	defer engine.Close()
	router := testRouter(t, engine)

	secret := register(t, router, "client-1", "public")
	headers := authHeaders("client-1", secret)

	// Ping inside the window keeps the session alive past the
	// original deadline.
	for i := 0; i < 4; i++ {
		time.Sleep(60 * time.Millisecond)
		rec, _ := doJSON(t, router, http.MethodPost, "/v1/ping", nil, headers)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	_, ok := engine.Session("client-1")
	assert.True(t, ok)

	// Go silent and the session is evicted.
	require.Eventually(t, func() bool {
		_, ok := engine.Session("client-1")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)

	rec, env := doJSON(t, router, http.MethodPost, "/v1/ping", nil, headers)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.ErrUnknownSession.Code, env.Code)
}

func TestAdminEndpoints(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	register(t, router, "client-1", "public")
	register(t, router, "client-2", "private")

	adminHeaders := map[string]string{HeaderAdminToken: "test-admin-token"}

	// Status reports the registry size.
	rec, env := doJSON(t, router, http.MethodGet, "/admin/v1/status", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		ActiveSessions int `json:"active_sessions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, 2, status.ActiveSessions)

	// Sessions are listed with their class.
	rec, env = doJSON(t, router, http.MethodGet, "/admin/v1/sessions", nil, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Sessions []domain.View `json:"sessions"`
		Total    int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "client-1", list.Sessions[0].ID)
	assert.Equal(t, "private", list.Sessions[1].Class)

	// Wrong token is rejected.
	rec, _ = doJSON(t, router, http.MethodGet, "/admin/v1/status", nil,
		map[string]string{HeaderAdminToken: "wrong"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminBroadcast(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	pubSecret := register(t, router, "pub", "public")
	privSecret := register(t, router, "priv", "private")

	adminHeaders := map[string]string{HeaderAdminToken: "test-admin-token"}
	rec, env := doJSON(t, router, http.MethodPost, "/admin/v1/broadcast", map[string]any{
		"message": domain.EncodePayload([]byte("announcement")),
		"exclude": []string{"private"},
	}, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Recipients int `json:"recipients"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 1, resp.Recipients)

	// The public client sees the broadcast, the private one does not.
	var fetch struct {
		Messages []*domain.PendingMessage `json:"messages"`
	}
	_, env = doJSON(t, router, http.MethodGet, "/v1/messages", nil, authHeaders("pub", pubSecret))
	require.NoError(t, json.Unmarshal(env.Data, &fetch))
	assert.Len(t, fetch.Messages, 1)

	_, env = doJSON(t, router, http.MethodGet, "/v1/messages", nil, authHeaders("priv", privSecret))
	require.NoError(t, json.Unmarshal(env.Data, &fetch))
	assert.Empty(t, fetch.Messages)
}

func TestHealthEndpoints(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	for _, path := range []string{"/health", "/ready"} {
		rec, env := doJSON(t, router, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", env.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	engine := service.New(time.Minute)
	defer engine.Close()
	router := testRouter(t, engine)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

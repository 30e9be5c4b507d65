package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-server/confs"
	"planner-server/db"
	"planner-server/logging"
	"planner-server/repositories"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &confs.Config{
		DBBackend:      confs.BackendGorm,
		DBDriver:       confs.DriverSQLite,
		DatabaseURL:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		SecretKey:      "test-secret",
		SessionTTL:     time.Hour,
		LogLevel:       "error",
		MetricsEnabled: true,
	}
	logger := logging.New("error", "text", io.Discard)
	database, err := db.Connect(cfg, logger)
	require.NoError(t, err)
	store := repositories.NewGormStore(database)
	t.Cleanup(func() { _ = store.Close() })
	return NewServer(cfg, store, logger)
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func register(t *testing.T, s *Server, username string) *client {
	t.Helper()
	c := &client{t: t, h: s.Handler()}
	w := c.do(http.MethodPost, "/register", gin.H{"username": username, "email": username + "@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c.token = decode[map[string]string](t, w)["token"]
	require.NotEmpty(t, c.token)
	return c
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	c := &client{t: t, h: s.Handler()}

	w := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/health"`)
	assert.Contains(t, w.Body.String(), "planner_ws_connections 0")
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	s := newTestServer(t)
	c := &client{t: t, h: s.Handler()}

	for _, path := range []string{"/api/tasks", "/calendar/events", "/notification_count", "/notifications_data", "/api/me"} {
		w := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	c.token = "garbage"
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/tasks", nil).Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "alice")
	c := &client{t: t, h: s.Handler()}

	w := c.do(http.MethodPost, "/register", gin.H{"username": "alice", "password": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = c.do(http.MethodPost, "/login", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid username or password", decode[map[string]string](t, w)["error"])

	w = c.do(http.MethodPost, "/login", gin.H{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[map[string]string](t, rec)["username"])
}

func TestLoginAcceptsForm(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "alice")

	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")

	w := alice.do(http.MethodPost, "/api/tasks", gin.H{"title": "Buy milk", "due_date": "2024-01-01", "priority": "low"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	id := created["id"].(string)
	assert.Equal(t, "2024-01-01T00:00:00", created["due_date"])

	w = alice.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "low", list[0]["priority"])
	assert.Equal(t, false, list[0]["completed"])

	w = alice.do(http.MethodPost, "/api/tasks", gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = alice.do(http.MethodGet, "/notification_count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode[map[string]any](t, w)["count"])

	w = alice.do(http.MethodGet, "/notifications_data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []map[string]string{{"title": "Buy milk", "due_time": "2024-01-01T00:00:00"}}, decode[[]map[string]string](t, w))

	w = alice.do(http.MethodPut, "/api/tasks/"+id, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode[map[string]string](t, w)["status"])

	w = alice.do(http.MethodGet, "/api/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, true, got["completed"])
	assert.Equal(t, "Buy milk", got["title"])
	assert.Equal(t, "low", got["priority"])
	assert.Equal(t, "2024-01-01T00:00:00", got["due_date"])

	w = alice.do(http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode[map[string]any](t, w)["count"])

	w = alice.do(http.MethodDelete, "/api/tasks/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = alice.do(http.MethodDelete, "/api/tasks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodPut, "/api/tasks/missing", gin.H{"title": "x"}).Code)
}

func TestTaskOwnership(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	w := alice.do(http.MethodPost, "/api/tasks", gin.H{"title": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]any](t, w)["id"].(string)

	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, "/api/tasks/"+id, gin.H{"title": "mine"}).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, "/api/tasks/"+id, nil).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, "/api/tasks/"+id, nil).Code)

	w = bob.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	w = alice.do(http.MethodGet, "/api/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret", decode[map[string]any](t, w)["title"])
}

func TestCategoriesAndDashboard(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")

	for _, body := range []gin.H{
		{"title": "a", "category": "work"},
		{"title": "b"},
		{"title": "c", "category": "home", "completed": true},
	} {
		require.Equal(t, http.StatusCreated, alice.do(http.MethodPost, "/api/tasks", body).Code)
	}

	w := alice.do(http.MethodGet, "/api/tasks/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"work": 1, "Uncategorized": 1}, decode[map[string]int](t, w))

	w = alice.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, dash, "tasks")
	assert.Contains(t, dash, "today_tasks")
	assert.Contains(t, dash, "upcoming_events")
	assert.JSONEq(t, `{"work":1,"Uncategorized":1}`, string(dash["categories"]))
}

type eventEnvelope struct {
	Status string         `json:"status"`
	Event  map[string]any `json:"event"`
}

func TestEventRoundTrip(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")

	w := alice.do(http.MethodPost, "/calendar/events", gin.H{"title": "X", "start": "2024-01-01T10:00:00", "end": "2024-01-01T11:00:00", "allDay": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[eventEnvelope](t, w)
	assert.Equal(t, "success", created.Status)
	id := created.Event["id"].(string)

	w = alice.do(http.MethodGet, "/calendar/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[[]map[string]any](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-01-01T10:00:00", events[0]["start"])
	assert.Equal(t, "2024-01-01T11:00:00", events[0]["end"])
	assert.Equal(t, false, events[0]["allDay"])

	w = alice.do(http.MethodPut, "/calendar/events/"+id, gin.H{"allDay": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[eventEnvelope](t, w).Event
	assert.Equal(t, true, updated["allDay"])
	assert.Equal(t, "X", updated["title"])
	assert.Equal(t, "2024-01-01T10:00:00", updated["start"])

	assert.Equal(t, http.StatusBadRequest, alice.do(http.MethodPut, "/calendar/events/"+id, gin.H{"end": "2023-12-31T00:00:00"}).Code)

	bob := register(t, s, "bob")
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, "/calendar/events/"+id, gin.H{"title": "y"}).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, "/calendar/events/"+id, nil).Code)

	assert.Equal(t, http.StatusNoContent, alice.do(http.MethodDelete, "/calendar/events/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodDelete, "/calendar/events/"+id, nil).Code)
}

func TestCreateEventRequiresStartAndEnd(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")

	w := alice.do(http.MethodPost, "/calendar/events", gin.H{"title": "X", "start": "2024-01-01T10:00:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "missing start or end time")
}

func TestNotificationSocket(t *testing.T) {
	s := newTestServer(t)
	alice := register(t, s, "alice")

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	header := http.Header{"Authorization": {"Bearer " + alice.token}}
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/notifications", header)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	readCount := func() map[string]any {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	msg := readCount()
	assert.Equal(t, "notification_count", msg["type"])
	assert.Equal(t, 0.0, msg["count"])

	w := alice.do(http.MethodPost, "/api/tasks", gin.H{"title": "overdue", "due_date": "2020-01-01"})
	require.Equal(t, http.StatusCreated, w.Code)

	msg = readCount()
	assert.Equal(t, 1.0, msg["count"])
}

func TestNotificationSocketRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/notifications", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

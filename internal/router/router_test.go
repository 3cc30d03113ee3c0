package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"notifyhub/config"
	"notifyhub/internal/models"
	"notifyhub/internal/testutil"
	"notifyhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	engine *gin.Engine
	hub    *ws.Hub
	db     *gorm.DB
}

type session struct {
	Token string
	User  models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.RateLimit.Requests = 10_000
	cfg.JWT.AccessSecret = "router-test-secret"

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	db := testutil.NewTestDB(t)
	engine, hub := Setup(ctx, cfg, db)
	return &testEnv{engine: engine, hub: hub, db: db}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, email, fullName string) session {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "password123", "full_name": fullName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		AccessToken string      `json:"access_token"`
		User        models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return session{Token: resp.AccessToken, User: resp.User}
}

func (e *testEnv) createItem(t *testing.T, s session, title, description string) models.Item {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/items", s.Token, gin.H{"title": title, "description": description})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var it models.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &it))
	return it
}

type notificationPage struct {
	Data        []models.Notification `json:"data"`
	Count       int64                 `json:"count"`
	UnreadCount int64                 `json:"unread_count"`
}

func (e *testEnv) listNotifications(t *testing.T, s session) notificationPage {
	t.Helper()
	w := e.do(t, http.MethodGet, "/api/v1/notifications", s.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page notificationPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","online_users":0}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice")
	assert.NotEmpty(t, alice.Token)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "alice@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/users/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPost, "/api/v1/users/me/fcm-token", alice.Token, gin.H{"token": "device-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotificationEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/v1/notifications", "/api/v1/notifications/unread-count", "/api/v1/items"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestMentionNotificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")

	it := env.createItem(t, alice, "Review", "please look @bob@example.com, thanks @alice@example.com")

	assert.Empty(t, env.listNotifications(t, alice).Data, "no self notification")

	page := env.listNotifications(t, bob)
	require.Len(t, page.Data, 1)
	assert.EqualValues(t, 1, page.Count)
	assert.EqualValues(t, 1, page.UnreadCount)
	n := page.Data[0]
	assert.Equal(t, "mention", n.Type)
	assert.Equal(t, "Alice mentioned you", n.Message)
	require.NotNil(t, n.ReferenceID)
	assert.Equal(t, it.ID, *n.ReferenceID)

	w := env.do(t, http.MethodGet, "/api/v1/notifications/unread-count", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread_count":1}`, w.Body.String())

	path := "/api/v1/notifications/" + n.ID.String()
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, bob.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, alice.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, path+"/read", alice.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, path, alice.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/notifications/not-a-uuid", bob.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/notifications/"+uuid.NewString(), bob.Token, nil).Code)

	w = env.do(t, http.MethodPut, path+"/read", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_read":true`)
	assert.EqualValues(t, 0, env.listNotifications(t, bob).UnreadCount)

	w = env.do(t, http.MethodDelete, path, bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "message")
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, bob.Token, nil).Code)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	for i := 0; i < 3; i++ {
		env.createItem(t, alice, "note", "@bob@example.com")
	}
	assert.EqualValues(t, 3, env.listNotifications(t, bob).UnreadCount)

	w := env.do(t, http.MethodPut, "/api/v1/notifications/read-all", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := env.listNotifications(t, bob)
	assert.EqualValues(t, 3, page.Count)
	assert.EqualValues(t, 0, page.UnreadCount)

	w = env.do(t, http.MethodGet, "/api/v1/notifications?limit=2&skip=1", bob.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paged notificationPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	assert.Len(t, paged.Data, 2)
	assert.EqualValues(t, 3, paged.Count)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/notifications?skip=-1", bob.Token, nil).Code)
}

func TestItemLikeNotifiesOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")
	it := env.createItem(t, bob, "Photo", "")

	path := "/api/v1/items/" + it.ID.String() + "/like"
	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, path, alice.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"likes":1`)
	}

	page := env.listNotifications(t, bob)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "like", page.Data[0].Type)
	assert.Equal(t, "Alice liked your item", page.Data[0].Message)

	// Alice cannot see or edit Bob's item.
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/v1/items/"+it.ID.String(), alice.Token, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPut, "/api/v1/items/"+it.ID.String(), alice.Token, gin.H{"title": "x"}).Code)
}

func TestAdminPresenceRequiresSuperuser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice")
	root := env.register(t, "root@example.com", "Root")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", root.User.ID).Update("is_superuser", true).Error)

	path := "/api/v1/admin/presence/" + alice.User.ID.String()
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, alice.Token, nil).Code)

	w := env.do(t, http.MethodGet, path, root.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"online":false`)
}

func TestLiveMentionPush(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice@example.com", "Alice")
	bob := env.register(t, "bob@example.com", "Bob")

	srv := httptest.NewServer(env.engine)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications?token=" + bob.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return env.hub.IsOnline(bob.User.ID) }, 2*time.Second, 10*time.Millisecond)

	it := env.createItem(t, alice, "Hello", "hi @bob@example.com")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var payload models.PushPayload
	require.NoError(t, conn.ReadJSON(&payload))
	assert.Equal(t, "mention", payload.Type)
	assert.Equal(t, "Alice mentioned you", payload.Message)
	require.NotNil(t, payload.ReferenceID)
	assert.Equal(t, it.ID, *payload.ReferenceID)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.JSONEq(t, `{"status":"ok","online_users":1}`, w.Body.String())
}

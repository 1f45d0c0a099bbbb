package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/miniapp-server/internal/api/context"
	"github.com/dtroode/miniapp-server/internal/cache"
	"github.com/dtroode/miniapp-server/internal/events"
	"github.com/dtroode/miniapp-server/internal/initdata"
	"github.com/dtroode/miniapp-server/internal/metrics"
	"github.com/dtroode/miniapp-server/internal/mocks"
	"github.com/dtroode/miniapp-server/internal/model"
	"github.com/dtroode/miniapp-server/internal/repository/memory"
	"github.com/dtroode/miniapp-server/internal/service"
	"github.com/dtroode/miniapp-server/internal/testutil"
	"github.com/dtroode/miniapp-server/internal/token"
)

type app struct {
	handler http.Handler
	store   *memory.UserRepository
}

func newApp(t *testing.T) *app {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	store := memory.NewUserRepository()
	c := cache.NewMemory()
	m := metrics.New()

	tokens, err := token.NewJWT("0123456789abcdef0123456789abcdef", "miniapp-server")
	require.NoError(t, err)

	auth := service.NewAuth(initdata.NewValidator(testutil.TestBotToken, 24*time.Hour), store, tokens, c,
		service.NoopAvatars{}, events.Noop{}, m, lg, model.DefaultSessionTTL)
	users := service.NewUser(store, c, service.NoopAvatars{}, events.Noop{}, lg, time.Minute)

	r := New(auth, users, tokens, apicontext.NewManager(), store, m, lg)
	return &app{handler: r.Register(), store: store}
}

func (a *app) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func authBody(t *testing.T, initData string) string {
	t.Helper()

	raw, err := json.Marshal(map[string]string{"initData": initData})
	require.NoError(t, err)
	return string(raw)
}

func TestRouter_AccountLifecycle(t *testing.T) {
	a := newApp(t)
	initData := testutil.SignedInitData(t, map[string]any{"id": 42, "first_name": "Nina"}, time.Now())

	rec := a.do(t, http.MethodPost, "/api/auth/telegram", authBody(t, initData), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var auth struct {
		Token string `json:"token"`
		User  struct {
			ID         string `json:"id"`
			ExternalID string `json:"externalId"`
			FirstName  string `json:"firstName"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	assert.Equal(t, "42", auth.User.ExternalID)
	assert.Equal(t, "Nina", auth.User.FirstName)

	rec = a.do(t, http.MethodGet, "/api/session", "", auth.Token)
	assert.JSONEq(t, `{"authenticated":true,"userId":"`+auth.User.ID+`","externalId":"42"}`, rec.Body.String())

	rec = a.do(t, http.MethodPatch, "/api/me/settings", `{"settings":{"theme":"dark"}}`, auth.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/me", "", auth.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"theme":"dark"`)

	rec = a.do(t, http.MethodGet, "/api/me/avatar", "", auth.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/me", "", auth.Token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, a.store.Count())

	rec = a.do(t, http.MethodGet, "/api/me", "", auth.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RejectsInvalidLaunchData(t *testing.T) {
	a := newApp(t)

	expired := testutil.SignedInitData(t, map[string]any{"id": 42, "first_name": "Nina"}, time.Now().Add(-25*time.Hour))
	forged := strings.Replace(testutil.SignedInitData(t, map[string]any{"id": 42, "first_name": "Nina"}, time.Now()), "Nina", "Nana", 1)

	for _, initData := range []string{expired, forged, "not a payload"} {
		rec := a.do(t, http.MethodPost, "/api/auth/telegram", authBody(t, initData), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid Telegram data"}`, rec.Body.String())
	}
	assert.Equal(t, 0, a.store.Count())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	a := newApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodDelete, "/api/me"},
		{http.MethodPatch, "/api/me/settings"},
		{http.MethodGet, "/api/me/avatar"},
	} {
		rec := a.do(t, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)
	}

	rec := a.do(t, http.MethodGet, "/api/session", "", "garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestRouter_Operational(t *testing.T) {
	a := newApp(t)

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/readyz", "", "").Code)

	a.do(t, http.MethodGet, "/healthz", "", "")
	rec := a.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `miniapp_http_requests_total{method="GET",path="/healthz",status="200"} 2`)
}

func TestRouter_UnmatchedRequests(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = a.do(t, http.MethodPut, "/healthz", "", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"method not allowed"}`, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `miniapp_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, rec.Body.String(), `miniapp_http_requests_total{method="PUT",path="unmatched",status="405"} 1`)
}

func TestRouter_StorageFailureIs500(t *testing.T) {
	lg := testutil.MakeNoopLogger()
	m := metrics.New()
	tokens, err := token.NewJWT("0123456789abcdef0123456789abcdef", "miniapp-server")
	require.NoError(t, err)

	store := mocks.NewUserStore(t)
	store.On("FindByExternalID", mock.Anything, int64(42)).Return(model.User{}, assert.AnError)

	auth := service.NewAuth(initdata.NewValidator(testutil.TestBotToken, 0), store, tokens, cache.NewMemory(),
		service.NoopAvatars{}, events.Noop{}, m, lg, 0)
	h := New(auth, nil, tokens, apicontext.NewManager(), memory.NewUserRepository(), m, lg).Register()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/telegram",
		strings.NewReader(authBody(t, testutil.SignedInitData(t, map[string]any{"id": 42, "first_name": "Nina"}, time.Now()))))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

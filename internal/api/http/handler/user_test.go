package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/miniapp-server/internal/api/context"
	"github.com/dtroode/miniapp-server/internal/mocks"
	"github.com/dtroode/miniapp-server/internal/model"
	"github.com/dtroode/miniapp-server/internal/testutil"
)

func authedRequest(method, target, body string, session model.Session) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	return r.WithContext(apicontext.NewManager().SetSession(r.Context(), session))
}

func TestUser_Me(t *testing.T) {
	session := model.Session{UserID: uuid.New(), ExternalID: "42"}
	svc := mocks.NewUserService(t)
	svc.On("Profile", mock.Anything, session.UserID).Return(model.User{
		ID:         session.UserID,
		ExternalID: 42,
		FirstName:  "Nina",
		Settings:   map[string]any{"theme": "dark"},
	}, nil)

	h := NewUser(svc, apicontext.NewManager(), testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	h.Me(rec, authedRequest(http.MethodGet, "/api/me", "", session))

	require.Equal(t, http.StatusOK, rec.Code)
	var body userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "42", body.ExternalID)
	assert.Equal(t, "dark", body.Settings["theme"])
}

func TestUser_Me_WithoutSession(t *testing.T) {
	h := NewUser(mocks.NewUserService(t), apicontext.NewManager(), testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestUser_Me_DeletedAccount(t *testing.T) {
	session := model.Session{UserID: uuid.New(), ExternalID: "42"}
	svc := mocks.NewUserService(t)
	svc.On("Profile", mock.Anything, session.UserID).Return(model.User{}, model.ErrNotFound)

	h := NewUser(svc, apicontext.NewManager(), testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	h.Me(rec, authedRequest(http.MethodGet, "/api/me", "", session))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUser_UpdateSettings(t *testing.T) {
	session := model.Session{UserID: uuid.New(), ExternalID: "42"}
	svc := mocks.NewUserService(t)
	svc.On("UpdateSettings", mock.Anything, session.UserID, map[string]any{"theme": "light"}).
		Return(model.User{ID: session.UserID, ExternalID: 42, Settings: map[string]any{"theme": "light"}}, nil)

	h := NewUser(svc, apicontext.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.UpdateSettings(rec, authedRequest(http.MethodPatch, "/api/me/settings", `{"settings":{"theme":"light"}}`, session))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateSettings(rec, authedRequest(http.MethodPatch, "/api/me/settings", `{"theme":"light"}`, session))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUser_Delete(t *testing.T) {
	session := model.Session{UserID: uuid.New(), ExternalID: "42"}
	svc := mocks.NewUserService(t)
	svc.On("Delete", mock.Anything, session.UserID).Return(nil)

	h := NewUser(svc, apicontext.NewManager(), testutil.MakeNoopLogger())
	rec := httptest.NewRecorder()
	h.Delete(rec, authedRequest(http.MethodDelete, "/api/me", "", session))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestUser_Avatar(t *testing.T) {
	session := model.Session{UserID: uuid.New(), ExternalID: "42"}
	svc := mocks.NewUserService(t)
	svc.On("Avatar", mock.Anything, session.UserID).Return(model.Object{
		Body:        io.NopCloser(strings.NewReader("png-bytes")),
		ContentType: "image/png",
		Size:        9,
	}, nil).Once()
	svc.On("Avatar", mock.Anything, session.UserID).Return(model.Object{}, model.ErrNotFound).Once()

	h := NewUser(svc, apicontext.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.Avatar(rec, authedRequest(http.MethodGet, "/api/me/avatar", "", session))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = httptest.NewRecorder()
	h.Avatar(rec, authedRequest(http.MethodGet, "/api/me/avatar", "", session))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeProbe struct {
	version int64
	err     error
}

func (p fakeProbe) Ready(context.Context) (int64, error) { return p.version, p.err }

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Ready(fakeProbe{version: 1}, testutil.MakeNoopLogger())(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","schemaVersion":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Ready(fakeProbe{err: assert.AnError}, testutil.MakeNoopLogger())(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSession(t *testing.T) {
	cm := apicontext.NewManager()
	session := model.Session{UserID: uuid.New(), ExternalID: "42"}

	rec := httptest.NewRecorder()
	Session(cm)(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Session(cm)(rec, authedRequest(http.MethodGet, "/api/session", "", session))
	assert.JSONEq(t, `{"authenticated":true,"userId":"`+session.UserID.String()+`","externalId":"42"}`, rec.Body.String())
}

package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tareas-go/apperror"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) page {
	t.Helper()
	var p page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestFlash_SurvivesRedirect(t *testing.T) {
	f := NewFlasher("test-secret", false)
	r := NewJSONRenderer(f, discardLogger())

	// Request 1 queues a notice and redirects.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tasks/new", nil)
	f.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.Notice(w, r, "Task created", SeverityInfo)
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
	})).ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, flashCookieName, cookies[0].Name)

	// Request 2 carries the cookie and renders it once.
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req2.AddCookie(cookies[0])
	f.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Render(w, req, http.StatusOK, View{Name: "tasks/list"})
	})).ServeHTTP(rec2, req2)

	p := decodePage(t, rec2)
	assert.Equal(t, "tasks/list", p.View)
	assert.Equal(t, []Notice{{Message: "Task created", Severity: SeverityInfo}}, p.Notices)

	cleared := rec2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestFlash_SameRequestNotices(t *testing.T) {
	f := NewFlasher("test-secret", false)
	r := NewJSONRenderer(f, discardLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	f.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		f.Notice(w, req, "first", SeverityError)
		f.Notice(w, req, "second", "")
		r.Render(w, req, http.StatusUnauthorized, View{Name: "auth/login"})
	})).ServeHTTP(rec, req)

	p := decodePage(t, rec)
	assert.Equal(t, []Notice{
		{Message: "first", Severity: SeverityError},
		{Message: "second", Severity: SeverityInfo},
	}, p.Notices)

	// Only the clearing cookie is left on the response.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestFlash_GarbageCookieIgnored(t *testing.T) {
	f := NewFlasher("test-secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "!!not base64!!"})
	assert.Empty(t, f.Pop(httptest.NewRecorder(), req))
}

func TestFlash_ForeignSignatureIgnored(t *testing.T) {
	other := NewFlasher("another-secret", false)
	rec := httptest.NewRecorder()
	other.Notice(rec, httptest.NewRequest(http.MethodGet, "/", nil), "forged", SeverityInfo)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	f := NewFlasher("test-secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Empty(t, f.Pop(httptest.NewRecorder(), req))

	// The signing flasher itself reads it back.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, []Notice{{Message: "forged", Severity: SeverityInfo}}, other.Pop(httptest.NewRecorder(), req))
}

func TestResponder_Error(t *testing.T) {
	rs := NewResponder(NewJSONRenderer(nil, discardLogger()), nil, discardLogger())

	tests := []struct {
		name   string
		err    error
		status int
		view   string
	}{
		{"not found", apperror.NewNotFoundError("task not found", nil), http.StatusNotFound, ViewNotFound},
		{"conflict", apperror.NewConflictError("taken", nil), http.StatusConflict, ViewError},
		{"throttled", apperror.NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, ViewError},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ViewError},
		{"database", apperror.NewDatabaseError("db down", errors.New("dial tcp")), http.StatusInternalServerError, ViewError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rs.Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			p := decodePage(t, rec)
			assert.Equal(t, tt.view, p.View)
			assert.NotContains(t, rec.Body.String(), "dial tcp")
		})
	}
}

func TestResponder_Redirect(t *testing.T) {
	rs := NewResponder(NewJSONRenderer(nil, discardLogger()), nil, discardLogger())
	rec := httptest.NewRecorder()
	rs.Redirect(rec, httptest.NewRequest(http.MethodPost, "/logout", nil), "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

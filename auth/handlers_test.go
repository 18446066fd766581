package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/web"
)

func newTestRouter(t *testing.T) (http.Handler, *fixture) {
	t.Helper()
	f := newFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	flash := web.NewFlasher("test-secret", false)
	resp := web.NewResponder(web.NewJSONRenderer(flash, logger), flash, logger)
	mw := NewMiddleware(f.gateway, resp)
	h := NewHandlers(f.gateway, forms.NewValidator(), resp, false)

	r := chi.NewRouter()
	r.Use(flash.Middleware)
	r.Use(mw.LoadIdentity)
	r.Group(func(r chi.Router) {
		r.Use(mw.RedirectAuthenticated(HomePath))
		r.Get("/login", h.HandleLoginPage())
		r.Post("/login", h.HandleLogin())
		r.Get("/register", h.HandleRegisterPage())
		r.Post("/register", h.HandleRegister())
	})
	r.Get("/logout", h.HandleLogout())
	r.With(mw.RequireAuthenticated).Get("/tasks", func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		_, _ = io.WriteString(w, id.Username)
	})
	return r, f
}

func postForm(target string, values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookieName)
	return nil
}

func registerValues(username, email string) url.Values {
	return url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {"pw-1234"},
		"confirm_password": {"pw-1234"},
		"accept":           {"y"},
	}
}

func TestRequireAuthenticated_RedirectsToLogin(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Ftasks", rec.Header().Get("Location"))
}

func TestRequireAuthenticated_BearerGets401(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	// Register logs the user in.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/register", registerValues("alice", "alice@example.com")))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, HomePath, rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	// Logged-in users are sent away from /login.
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// Logout revokes the session; the old cookie no longer works.
	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, LoginPath, rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// Log back in and follow `next`.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/login?next=%2Ftasks%3Fx%3D1", url.Values{
		"username": {"alice"},
		"password": {"pw-1234"},
	}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tasks?x=1", rec.Header().Get("Location"))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/login", url.Values{"username": {"nobody"}, "password": {"x"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		View    string       `json:"view"`
		Notices []web.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ViewLogin, body.View)
	require.Len(t, body.Notices, 1)
	assert.Equal(t, InvalidCredentialsMessage, body.Notices[0].Message)
	assert.NotContains(t, rec.Body.String(), `"password":"x"`)
}

func TestRegister_ValidationRerendersForm(t *testing.T) {
	router, _ := newTestRouter(t)

	values := registerValues("codi", "bad")
	values.Del("accept")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/register", values))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		View   string              `json:"view"`
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ViewRegister, body.View)
	assert.Contains(t, body.Errors, "username")
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "accept")
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/tasks/2", safeNext("/tasks/2", HomePath))
	assert.Equal(t, HomePath, safeNext("", HomePath))
	assert.Equal(t, HomePath, safeNext("https://evil.example", HomePath))
	assert.Equal(t, HomePath, safeNext("//evil.example", HomePath))
	assert.Equal(t, HomePath, safeNext("/\\evil.example", HomePath))
}

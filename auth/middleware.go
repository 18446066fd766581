package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/web"
)

// SessionCookieName carries the session token for browsers.
const SessionCookieName = "session"

// LoginPath is where anonymous users are sent.
const LoginPath = "/login"

// Middleware wraps handlers with identity resolution and route guards.
type Middleware struct {
	gateway *Gateway
	resp    *web.Responder
}

// NewMiddleware creates the auth middleware set.
func NewMiddleware(gateway *Gateway, resp *web.Responder) *Middleware {
	return &Middleware{gateway: gateway, resp: resp}
}

// LoadIdentity resolves the session token once per request and stores the identity in the context.
// Requests without a valid session continue anonymously.
func (m *Middleware) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.gateway.Load(r.Context(), tokenFromRequest(r))
		if err != nil {
			m.resp.Error(w, r, err)
			return
		}
		if id != nil {
			r = r.WithContext(NewContextWithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthenticated lets only authenticated requests through. Browsers are redirected to the
// login page with a notice and a `next` parameter; API clients using a bearer token get 401.
func (m *Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAuthenticated(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		if bearerToken(r) != "" {
			m.resp.Error(w, r, apperror.NewUnauthenticatedError(LoginRequiredMessage, nil))
			return
		}
		m.resp.Notice(w, r, LoginRequiredMessage, web.SeverityInfo)
		m.resp.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()))
	})
}

// RedirectAuthenticated sends users that are already logged in to `to`.
func (m *Middleware) RedirectAuthenticated(to string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAuthenticated(r.Context()) {
				m.resp.Redirect(w, r, to)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest prefers an "Authorization: Bearer" header over the session cookie.
func tokenFromRequest(r *http.Request) string {
	if t := bearerToken(r); t != "" {
		return t
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setSessionCookie(w http.ResponseWriter, s *Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext only accepts local paths, so `next` cannot bounce the user to another site.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}

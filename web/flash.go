package web

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// Severity of a flash notice.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

const (
	flashCookieName = "flash"
	flashMaxAge     = 3600
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func init() {
	gob.Register(Notice{})
}

// Flasher is the best-effort notice channel, kept in a signed gorilla/sessions cookie.
// Notices survive a redirect in the cookie; notices raised and rendered within the same
// request are read back from the same session. Unreadable or forged cookies are dropped.
type Flasher struct {
	store *sessions.CookieStore
}

// NewFlasher creates a Flasher whose cookie is signed with a key derived from secret;
// secure marks the cookie HTTPS-only.
func NewFlasher(secret string, secure bool) *Flasher {
	key := sha256.Sum256([]byte("flash\x00" + secret))
	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(flashMaxAge)
	return &Flasher{store: store}
}

type flashKey struct{}

// flashState is the per-request session; dirty sessions are saved once, right before
// the response headers go out.
type flashState struct {
	session *sessions.Session
	dirty   bool
}

// Middleware gives every request one flash session and writes it back when the response starts.
func (f *Flasher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := &flashState{}
		r = r.WithContext(context.WithValue(r.Context(), flashKey{}, st))
		next.ServeHTTP(&flashWriter{ResponseWriter: w, r: r, st: st}, r)
	})
}

// Notice queues a message for the user.
func (f *Flasher) Notice(w http.ResponseWriter, r *http.Request, message, severity string) {
	if severity == "" {
		severity = SeverityInfo
	}
	s := f.session(r)
	s.Options.MaxAge = flashMaxAge
	s.AddFlash(Notice{Message: message, Severity: severity})
	f.changed(w, r, s)
}

// Pop returns every pending notice and clears the channel.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []Notice {
	s := f.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]Notice, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(Notice); ok {
			out = append(out, n)
		}
	}
	s.Options.MaxAge = -1
	f.changed(w, r, s)
	return out
}

func (f *Flasher) session(r *http.Request) *sessions.Session {
	st, ok := r.Context().Value(flashKey{}).(*flashState)
	if ok && st.session != nil {
		return st.session
	}
	// A cookie that fails to decode still yields a fresh, empty session.
	s, _ := f.store.Get(r, flashCookieName)
	if ok {
		st.session = s
	}
	return s
}

func (f *Flasher) changed(w http.ResponseWriter, r *http.Request, s *sessions.Session) {
	if st, ok := r.Context().Value(flashKey{}).(*flashState); ok {
		st.dirty = true
		return
	}
	_ = s.Save(r, w)
}

// flashWriter saves a dirty flash session before the first header or body byte is written.
type flashWriter struct {
	http.ResponseWriter
	r     *http.Request
	st    *flashState
	saved bool
}

func (fw *flashWriter) save() {
	if fw.saved {
		return
	}
	fw.saved = true
	if fw.st.dirty && fw.st.session != nil {
		_ = fw.st.session.Save(fw.r, fw.ResponseWriter)
	}
}

func (fw *flashWriter) WriteHeader(code int) {
	fw.save()
	fw.ResponseWriter.WriteHeader(code)
}

func (fw *flashWriter) Write(b []byte) (int, error) {
	fw.save()
	return fw.ResponseWriter.Write(b)
}

func (fw *flashWriter) Unwrap() http.ResponseWriter {
	return fw.ResponseWriter
}

// Package web holds the presentation-side collaborators of the application: the Renderer that
// turns a named view plus data into a response, the one-way flash notice channel, and the
// Responder that maps apperror values onto HTTP responses. Handlers depend on these through
// small interfaces so that the output format can change without touching the core.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// View is a named page plus the payload it needs.
type View struct {
	Name   string              // e.g. "tasks/list", "auth/login", "errors/404"
	Title  string              // page title
	Active string              // navigation entry to highlight
	Data   any                 // view-specific payload
	Errors map[string][]string // field errors when a form is re-rendered
}

// Renderer produces the user-facing representation of a view.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, view View)
}

// page is the JSON document written by JSONRenderer.
type page struct {
	View    string              `json:"view"`
	Title   string              `json:"title,omitempty"`
	Active  string              `json:"active,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Notices []Notice            `json:"notices,omitempty"`
}

// JSONRenderer renders every view as a JSON document and drains pending flash notices into it.
type JSONRenderer struct {
	flash  *Flasher
	logger *slog.Logger
}

// NewJSONRenderer creates a renderer; flash may be nil when notices are not wanted.
func NewJSONRenderer(flash *Flasher, logger *slog.Logger) *JSONRenderer {
	return &JSONRenderer{flash: flash, logger: logger}
}

func (j *JSONRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view View) {
	p := page{
		View:   view.Name,
		Title:  view.Title,
		Active: view.Active,
		Data:   view.Data,
		Errors: view.Errors,
	}
	if j.flash != nil {
		p.Notices = j.flash.Pop(w, r)
	}
	writeJSON(w, status, p, j.logger)
}

// writeJSON serializes `data` to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		// The status line is already out; all that is left is to record it.
		logger.Error("failed to encode response", "error", err)
	}
}

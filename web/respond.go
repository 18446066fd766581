package web

import (
	"log/slog"
	"net/http"

	"github.com/user/tareas-go/apperror"
)

// Standard view names shared by several handlers.
const (
	ViewNotFound = "errors/404"
	ViewError    = "errors/error"
)

// Responder bundles the renderer, the flash channel and a logger so that handlers can answer
// with one call. It is the only place where an apperror type becomes an HTTP status.
type Responder struct {
	Renderer Renderer
	Flash    *Flasher
	Logger   *slog.Logger
}

// NewResponder wires a Responder.
func NewResponder(renderer Renderer, flash *Flasher, logger *slog.Logger) *Responder {
	return &Responder{Renderer: renderer, Flash: flash, Logger: logger}
}

// Render writes a view with the given status.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, status int, view View) {
	rs.Renderer.Render(w, r, status, view)
}

// Notice queues a flash notice.
func (rs *Responder) Notice(w http.ResponseWriter, r *http.Request, message, severity string) {
	if rs.Flash != nil {
		rs.Flash.Notice(w, r, message, severity)
	}
}

// JSON writes data as a bare JSON document, bypassing the view layer.
func (rs *Responder) JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data, rs.Logger)
}

// Redirect answers a successful state-changing request with 303 See Other.
func (rs *Responder) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// NotFound renders the not-found view.
func (rs *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	rs.Renderer.Render(w, r, http.StatusNotFound, View{Name: ViewNotFound, Title: "Not Found"})
}

// Error maps err to a response. NotFound errors render the not-found view; server-side failures
// are logged with their cause and shown with a generic message.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("internal server error", err)
	}

	status := appErr.StatusCode()
	if status == http.StatusNotFound {
		rs.NotFound(w, r)
		return
	}

	resp := appErr.ToResponse()
	if status >= http.StatusInternalServerError {
		rs.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "type", appErr.Type, "error", err)
		resp = apperror.ErrorResponse{Error: "An unexpected error occurred. Please try again later."}
	}

	rs.Renderer.Render(w, r, status, View{
		Name:   ViewError,
		Title:  http.StatusText(status),
		Data:   resp,
		Errors: resp.Fields,
	})
}

// Package server assembles the HTTP application: it builds every collaborator from the
// configuration (App) and mounts the handlers on a chi router (NewRouter).
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/auth"
	_ "github.com/user/tareas-go/docs" // Swagger docs
	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/ratelimit"
	"github.com/user/tareas-go/tasks"
	"github.com/user/tareas-go/web"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

// RouterDeps is everything the router needs. Backends are already chosen.
type RouterDeps struct {
	Gateway        *auth.Gateway
	Tasks          tasks.TaskService
	Validator      *forms.Validator
	Responder      *web.Responder
	Flash          *web.Flasher
	LoginLimiter   ratelimit.Limiter
	CORSOrigins    []string
	SecureCookies  bool
	RequestTimeout time.Duration
	Health         map[string]HealthCheck
}

// NewRouter builds the chi router with the shared middleware stack and every route.
func NewRouter(d RouterDeps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 60 * time.Second
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}
	resp := d.Responder
	logger := resp.Logger

	authMW := auth.NewMiddleware(d.Gateway, resp)
	authHandlers := auth.NewHandlers(d.Gateway, d.Validator, resp, d.SecureCookies)
	taskHandler := tasks.NewTaskHandler(d.Tasks, resp)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panics inside handlers become a rendered 500 instead of a dropped connection.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.ErrorContext(r.Context(), "panic", "recovered", rvr, "path", r.URL.Path)
					if ww.Status() == 0 {
						resp.Error(ww, r, apperror.NewInternalError("internal server error", nil))
					}
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Use(d.Flash.Middleware)

	r.Get("/healthz", healthHandler(d.Health, resp))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		r.Use(authMW.LoadIdentity)

		r.Get("/", indexHandler(resp))

		r.Group(func(r chi.Router) {
			r.Use(authMW.RedirectAuthenticated(auth.HomePath))
			r.Get("/login", authHandlers.HandleLoginPage())
			r.Get("/register", authHandlers.HandleRegisterPage())

			r.Group(func(r chi.Router) {
				if d.LoginLimiter != nil {
					r.Use(ratelimit.Middleware(d.LoginLimiter, resp, logger))
				}
				r.Post("/login", authHandlers.HandleLogin())
				r.Post("/register", authHandlers.HandleRegister())
			})
		})

		r.Get("/logout", authHandlers.HandleLogout())

		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuthenticated)
			taskHandler.RegisterRoutes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.NotFound(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.Render(w, r, http.StatusMethodNotAllowed, web.View{Name: web.ViewError, Title: "Method Not Allowed"})
	})

	return r
}

type indexData struct {
	User *auth.Identity `json:"user,omitempty"`
}

// indexHandler godoc
// @Summary Landing page
// @Tags Pages
// @Produce json
// @Success 200 {object} web.View
// @Router / [get]
func indexHandler(resp *web.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		resp.Render(w, r, http.StatusOK, web.View{Name: "index", Title: "Index", Active: "index", Data: indexData{User: id}})
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler godoc
// @Summary Liveness and dependency check
// @Tags Ops
// @Produce json
// @Success 200 {object} server.healthResponse
// @Failure 503 {object} server.healthResponse
// @Router /healthz [get]
func healthHandler(checks map[string]HealthCheck, resp *web.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		out := healthResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
				out.Checks[name] = "unavailable"
				out.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			out.Checks[name] = "ok"
		}
		resp.JSON(w, status, out)
	}
}

package auth

import (
	"net/http"

	"github.com/user/tareas-go/apperror"
	"github.com/user/tareas-go/forms"
	"github.com/user/tareas-go/web"
)

// Views rendered by this package.
const (
	ViewLogin    = "auth/login"
	ViewRegister = "auth/register"
)

// HomePath is where users land after logging in or registering.
const HomePath = "/tasks"

// Handlers serves the login, logout and registration pages.
type Handlers struct {
	gateway      *Gateway
	validator    *forms.Validator
	resp         *web.Responder
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(gateway *Gateway, validator *forms.Validator, resp *web.Responder, secureCookie bool) *Handlers {
	return &Handlers{gateway: gateway, validator: validator, resp: resp, secureCookie: secureCookie}
}

// formData is what the login and register views receive.
type formData struct {
	Form any    `json:"form"`
	Next string `json:"next,omitempty"`
}

// HandleLoginPage godoc
// @Summary Login page
// @Tags Auth
// @Produce json
// @Param next query string false "Local path to return to after login"
// @Success 200 {object} web.View
// @Router /login [get]
func (h *Handlers) HandleLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderLogin(w, r, http.StatusOK, forms.LoginForm{}, nil)
	}
}

// HandleLogin godoc
// @Summary Log in
// @Description Verifies the credentials, opens a session and sets the session cookie.
// @Tags Auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 303 "Redirect to /tasks or to next"
// @Failure 400 {object} web.View "Invalid form"
// @Failure 401 {object} web.View "Invalid credentials"
// @Failure 429 {object} apperror.ErrorResponse
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.LoginForm
		if err := forms.Bind(r, &form); err != nil {
			h.resp.Error(w, r, err)
			return
		}
		if errs := h.validator.Validate(form); errs != nil {
			h.renderLogin(w, r, http.StatusBadRequest, form, errs)
			return
		}

		session, err := h.gateway.Login(r.Context(), form.Username, form.Password)
		if err != nil {
			if apperror.IsAuthError(err) {
				h.resp.Notice(w, r, InvalidCredentialsMessage, web.SeverityError)
				h.renderLogin(w, r, http.StatusUnauthorized, form, nil)
				return
			}
			h.resp.Error(w, r, err)
			return
		}

		setSessionCookie(w, session, h.secureCookie)
		h.resp.Notice(w, r, LoggedInMessage, web.SeverityInfo)
		h.resp.Redirect(w, r, safeNext(r.URL.Query().Get("next"), HomePath))
	}
}

// HandleLogout godoc
// @Summary Log out
// @Description Revokes the current session. Always succeeds.
// @Tags Auth
// @Success 303 "Redirect to /login"
// @Router /logout [get]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		if err := h.gateway.Logout(r.Context(), id); err != nil {
			h.resp.Error(w, r, err)
			return
		}
		clearSessionCookie(w, h.secureCookie)
		h.resp.Notice(w, r, LoggedOutMessage, web.SeverityInfo)
		h.resp.Redirect(w, r, LoginPath)
	}
}

// HandleRegisterPage godoc
// @Summary Registration page
// @Tags Auth
// @Produce json
// @Success 200 {object} web.View
// @Router /register [get]
func (h *Handlers) HandleRegisterPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderRegister(w, r, http.StatusOK, forms.RegisterForm{}, nil)
	}
}

// HandleRegister godoc
// @Summary Register
// @Description Creates an account, sends the welcome mail and logs the new user in.
// @Tags Auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Username (4-50 characters)"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param confirm_password formData string true "Password again"
// @Param accept formData bool true "Terms accepted"
// @Success 303 "Redirect to /tasks"
// @Failure 400 {object} web.View "Invalid form, or username/email already in use"
// @Failure 429 {object} apperror.ErrorResponse
// @Router /register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form forms.RegisterForm
		if err := forms.Bind(r, &form); err != nil {
			h.resp.Error(w, r, err)
			return
		}

		session, err := h.gateway.Register(r.Context(), form)
		if err != nil {
			if appErr, ok := apperror.FromError(err); ok && appErr.Type == apperror.ValidationError {
				h.renderRegister(w, r, http.StatusBadRequest, form, appErr.Fields)
				return
			}
			h.resp.Error(w, r, err)
			return
		}

		setSessionCookie(w, session, h.secureCookie)
		h.resp.Notice(w, r, UserCreatedMessage, web.SeverityInfo)
		h.resp.Redirect(w, r, HomePath)
	}
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, form forms.LoginForm, errs map[string][]string) {
	form.Password = ""
	h.resp.Render(w, r, status, web.View{
		Name:   ViewLogin,
		Title:  "Login",
		Active: "login",
		Data:   formData{Form: form, Next: safeNext(r.URL.Query().Get("next"), "")},
		Errors: errs,
	})
}

func (h *Handlers) renderRegister(w http.ResponseWriter, r *http.Request, status int, form forms.RegisterForm, errs map[string][]string) {
	form.Password, form.ConfirmPassword = "", ""
	h.resp.Render(w, r, status, web.View{
		Name:   ViewRegister,
		Title:  "Register",
		Active: "register",
		Data:   formData{Form: form},
		Errors: errs,
	})
}

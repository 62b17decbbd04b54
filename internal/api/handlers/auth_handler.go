// filepath: internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"snapstream/internal/backend"
	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"
	"snapstream/internal/views"
)

// MsgLoggedOut is shown after logout.
const MsgLoggedOut = "Logged out successfully"

// statusFor maps a service error to the status of the answer.
func statusFor(err error) int {
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Status >= http.StatusBadRequest {
			return apiErr.Status
		}
		return http.StatusBadRequest
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrUnsupported),
		errors.Is(err, services.ErrTooLarge), errors.Is(err, services.ErrNoSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// LandingPage renders the public home page.
func (h *Handlers) LandingPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "landing", "", "home", nil)
}

// LoginPage renders the empty login form.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", "Login", "login", views.AuthPage{Form: services.NewLoginForm()})
}

// RegisterPage renders the empty register form.
func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Register", "register", views.AuthPage{Form: services.NewRegisterForm()})
}

// @Summary Log in
// @Description Validates the login form and opens a backend session. Invalid fields are answered without contacting the backend.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   email formData string true "Email"
// @Param   password formData string true "Password"
// @Success 200 {object} FragmentResponse "Toast and redirect to the dashboard"
// @Failure 422 {object} FragmentResponse "Field errors"
// @Failure 401 {object} FragmentResponse "Backend rejected the credentials"
// @Router /login [post]
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	form := services.NewLoginForm()
	err := h.Forms.SubmitLogin(r.Context(), form, services.LoginInput{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	h.finishAuthForm(w, r, "login", "Login", form, err)
}

// @Summary Register
// @Description Validates the register form and creates a backend account.
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   username formData string true "Username (at least 3 characters)"
// @Param   email formData string true "Email"
// @Param   password formData string true "Password (at least 6 characters)"
// @Param   confirm_password formData string true "Password confirmation"
// @Success 200 {object} FragmentResponse "Toast and redirect to the login page"
// @Failure 422 {object} FragmentResponse "Field errors"
// @Failure 400 {object} FragmentResponse "Backend rejected the registration"
// @Router /register [post]
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	form := services.NewRegisterForm()
	err := h.Forms.SubmitRegister(r.Context(), form, services.RegisterInput{
		Username:        r.PostForm.Get("username"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
	})
	h.finishAuthForm(w, r, "register", "Register", form, err)
}

// finishAuthForm answers a submitted auth form in its final state.
func (h *Handlers) finishAuthForm(w http.ResponseWriter, r *http.Request, page, title string, form *services.AuthForm, err error) {
	var res FragmentResponse
	if form.Toast != nil {
		res.Toasts = append(res.Toasts, *form.Toast)
	}

	if err != nil {
		code := statusFor(err)
		if isFragment(r) {
			res.Errors = form.Errors
			h.respondFragment(w, code, res)
			return
		}
		if form.Toast != nil {
			toast.Ensure(r.Context()).Add(*form.Toast)
		}
		h.render(w, r, code, page, title, page, views.AuthPage{Form: form})
		return
	}

	h.audit(r, "auth."+form.Kind, "User:"+form.Email, map[string]interface{}{"redirect": form.Redirect})
	res.Redirect = form.Redirect
	res.DelayMS = h.Cfg.Timings.AuthRedirect.Milliseconds()
	h.respondAction(w, r, http.StatusOK, res, form.Redirect)
}

// @Summary Log out
// @Description Ends the backend session (best effort), clears the legacy client cookies and sends the browser to the login page.
// @Tags Auth
// @Produce  json
// @Success 200 {object} FragmentResponse
// @Router /logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Gate.Logout(r.Context(), w)
	h.audit(r, "auth.logout", "", nil)
	h.respondAction(w, r, http.StatusOK, FragmentResponse{
		Toasts:   []models.Toast{toast.New(MsgLoggedOut, toast.Success, "")},
		Redirect: auth.LoginPath,
		DelayMS:  h.Cfg.Timings.LogoutRedirect.Milliseconds(),
	}, auth.LoginPath)
}

// filepath: internal/api/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"snapstream/internal/models"
	"snapstream/internal/services"
	"snapstream/internal/services/auth"
	"snapstream/internal/toast"
	"snapstream/internal/views"
)

// ProfilePage renders the account settings.
func (h *Handlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	h.render(w, r, http.StatusOK, "profile", "Profile", "profile", views.ProfilePage{User: user})
}

// @Summary Update username
// @Tags Profile
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   username formData string true "New username"
// @Success 200 {object} FragmentResponse
// @Failure 422 {object} FragmentResponse
// @Router /profile/update [post]
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	out, err := h.Profile.UpdateUsername(r.Context(), r.PostForm.Get("username"))
	if err == nil {
		h.audit(r, "profile.update", "User:"+r.PostForm.Get("username"), nil)
	}
	h.finishProfile(w, r, out, err)
}

// @Summary Change password
// @Tags Profile
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Param   current_password formData string true "Current password"
// @Param   new_password formData string true "New password (at least 6 characters)"
// @Param   confirm_password formData string true "New password again"
// @Success 200 {object} FragmentResponse
// @Failure 422 {object} FragmentResponse
// @Router /profile/change-password [post]
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	out, err := h.Profile.ChangePassword(r.Context(),
		r.PostForm.Get("current_password"),
		r.PostForm.Get("new_password"),
		r.PostForm.Get("confirm_password"))
	if err == nil {
		h.audit(r, "profile.change_password", "", nil)
	}
	h.finishProfile(w, r, out, err)
}

// @Summary Delete account
// @Description Deletes the account and sends the browser to the home page.
// @Tags Profile
// @Produce  json
// @Param   X-SnapStream-Fragment header string true "Set by the page script"
// @Success 200 {object} FragmentResponse
// @Router /profile/delete-account [post]
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	out, err := h.Profile.DeleteAccount(r.Context())
	if err == nil {
		h.audit(r, "profile.delete_account", "", nil)
	}
	h.finishProfile(w, r, out, err)
}

// finishProfile answers a profile form. Field errors re-render the page
// without the script; everything else goes back to the profile page.
func (h *Handlers) finishProfile(w http.ResponseWriter, r *http.Request, out services.ProfileOutcome, err error) {
	code := http.StatusOK
	if err != nil {
		code = statusFor(err)
	}

	var res FragmentResponse
	if out.Toast.Message != "" {
		res.Toasts = []models.Toast{out.Toast}
	}
	res.Errors = out.Errors
	res.Redirect = out.Redirect

	if len(out.Errors) > 0 && !isFragment(r) {
		user, _ := auth.UserFromContext(r.Context())
		for _, t := range res.Toasts {
			toast.Ensure(r.Context()).Add(t)
		}
		h.render(w, r, code, "profile", "Profile", "profile", views.ProfilePage{User: user, Errors: out.Errors})
		return
	}
	h.respondAction(w, r, code, res, "/profile")
}

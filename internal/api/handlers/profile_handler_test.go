// filepath: internal/api/handlers/profile_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"snapstream/internal/backend"
	"snapstream/internal/models"
	"snapstream/internal/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProfilePage(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: 4, Username: "ana", Email: "ana@example.com"}))
	rr := httptest.NewRecorder()
	h.ProfilePage(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ana@example.com")
}

func TestUpdateProfile(t *testing.T) {
	t.Run("Empty Username", func(t *testing.T) {
		h, api := newTestHandlers(t)

		rr := httptest.NewRecorder()
		h.UpdateProfile(rr, asFragment(newFormRequest("/profile/update", url.Values{"username": {"  "}})))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		res := decodeFragment(t, rr.Body)
		assert.Equal(t, "Username is required", res.Errors["username"])
		api.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		h, api := newTestHandlers(t)
		api.On("UpdateProfile", mock.Anything, "ana2").Return(&backend.Result{Success: true}, nil)

		rr := httptest.NewRecorder()
		h.UpdateProfile(rr, newFormRequest("/profile/update", url.Values{"username": {"ana2"}}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/profile", rr.Header().Get("Location"))
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("Mismatch Re-renders Without Script", func(t *testing.T) {
		h, api := newTestHandlers(t)

		req := newFormRequest("/profile/change-password", url.Values{
			"current_password": {"old-secret"},
			"new_password":     {"new-secret"},
			"confirm_password": {"other"},
		})
		req = req.WithContext(auth.WithUser(req.Context(), &models.User{Username: "ana"}))
		rr := httptest.NewRecorder()
		h.ChangePassword(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "Passwords do not match")
		api.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Backend Rejects", func(t *testing.T) {
		h, api := newTestHandlers(t)
		api.On("ChangePassword", mock.Anything, "wrong", "new-secret").
			Return(nil, &backend.APIError{Status: http.StatusBadRequest, Message: "Current password is incorrect"})

		rr := httptest.NewRecorder()
		h.ChangePassword(rr, asFragment(newFormRequest("/profile/change-password", url.Values{
			"current_password": {"wrong"},
			"new_password":     {"new-secret"},
			"confirm_password": {"new-secret"},
		})))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		res := decodeFragment(t, rr.Body)
		assert.Equal(t, "Current password is incorrect", res.Toasts[0].Message)
	})
}

func TestDeleteAccount(t *testing.T) {
	h, api := newTestHandlers(t)
	api.On("DeleteAccount", mock.Anything).Return(&backend.AuthResult{Result: backend.Result{Success: true}}, nil)

	rr := httptest.NewRecorder()
	h.DeleteAccount(rr, asFragment(newFormRequest("/profile/delete-account", url.Values{})))

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeFragment(t, rr.Body)
	assert.Equal(t, "/", res.Redirect)
	assert.Equal(t, "Account deleted successfully", res.Toasts[0].Message)
	assert.Empty(t, res.Errors)
}

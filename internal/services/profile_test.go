// filepath: internal/services/profile_test.go
package services_test

import (
	"testing"

	"snapstream/internal/backend"
	"snapstream/internal/services"
	"snapstream/internal/services/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfile_UpdateUsername(t *testing.T) {
	api := new(mocks.MockBackend)
	svc := services.NewProfileService(api)

	out, err := svc.UpdateUsername(testContext(t), "   ")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, "Username is required", out.Errors["username"])
	api.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)

	api.On("UpdateProfile", mock.Anything, "bob").Return(&backend.Result{Success: true, Message: "Profile updated successfully"}, nil)
	out, err = svc.UpdateUsername(testContext(t), " bob ")
	require.NoError(t, err)
	assert.Equal(t, "Profile updated successfully", out.Toast.Message)
}

func TestProfile_ChangePassword(t *testing.T) {
	api := new(mocks.MockBackend)
	svc := services.NewProfileService(api)

	out, err := svc.ChangePassword(testContext(t), "", "123", "456")
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Len(t, out.Errors, 3)
	assert.Equal(t, "New password must be at least 6 characters", out.Errors["new-password"])

	api.On("ChangePassword", mock.Anything, "old", "newpass").Return(nil, &backend.APIError{Status: 400, Message: "Current password is incorrect"})
	out, err = svc.ChangePassword(testContext(t), "old", "newpass", "newpass")
	assert.Error(t, err)
	assert.Equal(t, "Current password is incorrect", out.Toast.Message)
	assert.Equal(t, "error", out.Toast.Severity)
}

func TestProfile_DeleteAccount(t *testing.T) {
	api := new(mocks.MockBackend)
	api.On("DeleteAccount", mock.Anything).Return(&backend.AuthResult{Result: backend.Result{Success: true}}, nil).Once()
	svc := services.NewProfileService(api)

	out, err := svc.DeleteAccount(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "/", out.Redirect)
	assert.Equal(t, "Account deleted successfully", out.Toast.Message)

	api.On("DeleteAccount", mock.Anything).Return(nil, backend.ErrNetwork).Once()
	out, err = svc.DeleteAccount(testContext(t))
	assert.Error(t, err)
	assert.Empty(t, out.Redirect)
	assert.Equal(t, backend.GenericServerMessage, out.Toast.Message)
}

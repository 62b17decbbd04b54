// filepath: internal/services/forms_test.go
package services_test

import (
	"errors"
	"testing"

	"snapstream/internal/backend"
	"snapstream/internal/services"
	"snapstream/internal/services/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoginInput_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   services.LoginInput
		want services.FieldErrors
	}{
		{"valid", services.LoginInput{Email: "a@b.co", Password: "x"}, services.FieldErrors{}},
		{"missing both", services.LoginInput{}, services.FieldErrors{"email": "Email is required", "password": "Password is required"}},
		{"bad email", services.LoginInput{Email: "not-an-email", Password: "x"}, services.FieldErrors{"email": "Enter a valid email"}},
		{"email with space", services.LoginInput{Email: "a b@c.de", Password: "x"}, services.FieldErrors{"email": "Enter a valid email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Validate())
		})
	}
}

func TestRegisterInput_Validate(t *testing.T) {
	valid := services.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	assert.Empty(t, valid.Validate())

	all := services.RegisterInput{Username: "al", Email: "nope", Password: "123", ConfirmPassword: "1234"}
	errs := all.Validate()
	assert.Equal(t, "Username must be at least 3 characters", errs["username"])
	assert.Equal(t, "Valid email is required", errs["email"])
	assert.Equal(t, "Password must be at least 6 characters", errs["password"])
	assert.Equal(t, "Passwords do not match", errs["confirm-password"])
	assert.Len(t, errs, 4)

	// Boundary lengths are accepted.
	edge := services.RegisterInput{Username: "abc", Email: "a@b.cd", Password: "123456", ConfirmPassword: "123456"}
	assert.Empty(t, edge.Validate())
}

func TestSubmitLogin(t *testing.T) {
	t.Run("invalid input never reaches the backend", func(t *testing.T) {
		api := new(mocks.MockBackend)
		svc := services.NewAuthFormService(api)
		form := services.NewLoginForm()

		err := svc.SubmitLogin(testContext(t), form, services.LoginInput{Email: "bad"})
		assert.ErrorIs(t, err, services.ErrValidation)
		assert.Equal(t, services.FormIdle, form.State)
		assert.Len(t, form.Errors, 2)
		assert.Nil(t, form.Toast)
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success uses server redirect", func(t *testing.T) {
		api := new(mocks.MockBackend)
		api.On("Login", mock.Anything, "a@b.co", "pw").
			Return(&backend.AuthResult{Result: backend.Result{Success: true, Message: "Welcome back", Redirect: "/home"}}, nil)
		svc := services.NewAuthFormService(api)
		form := services.NewLoginForm()

		require.NoError(t, svc.SubmitLogin(testContext(t), form, services.LoginInput{Email: " a@b.co ", Password: "pw"}))
		assert.Equal(t, services.FormRedirecting, form.State)
		assert.Equal(t, "/home", form.Redirect)
		require.NotNil(t, form.Toast)
		assert.Equal(t, "Welcome back", form.Toast.Message)
		assert.Equal(t, "success", form.Toast.Severity)
		api.AssertExpectations(t)
	})

	t.Run("success falls back to dashboard", func(t *testing.T) {
		api := new(mocks.MockBackend)
		api.On("Login", mock.Anything, "a@b.co", "pw").Return(&backend.AuthResult{Result: backend.Result{Success: true}}, nil)
		form := services.NewLoginForm()

		require.NoError(t, services.NewAuthFormService(api).SubmitLogin(testContext(t), form, services.LoginInput{Email: "a@b.co", Password: "pw"}))
		assert.Equal(t, "/dashboard", form.Redirect)
		assert.Equal(t, "Login successful", form.Toast.Message)
	})

	t.Run("server message is shown verbatim", func(t *testing.T) {
		api := new(mocks.MockBackend)
		api.On("Login", mock.Anything, "a@b.co", "pw").Return(nil, &backend.APIError{Status: 401, Message: "Invalid email or password"})
		form := services.NewLoginForm()

		err := services.NewAuthFormService(api).SubmitLogin(testContext(t), form, services.LoginInput{Email: "a@b.co", Password: "pw"})
		assert.Error(t, err)
		assert.Equal(t, services.FormIdle, form.State)
		assert.False(t, form.Busy)
		assert.Equal(t, "a@b.co", form.Email)
		assert.Equal(t, "Invalid email or password", form.Toast.Message)
		assert.Equal(t, "error", form.Toast.Severity)
	})

	t.Run("network failure shows generic message", func(t *testing.T) {
		api := new(mocks.MockBackend)
		api.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, backend.ErrNetwork)
		form := services.NewLoginForm()

		err := services.NewAuthFormService(api).SubmitLogin(testContext(t), form, services.LoginInput{Email: "a@b.co", Password: "pw"})
		assert.True(t, errors.Is(err, backend.ErrNetwork))
		assert.Equal(t, backend.GenericServerMessage, form.Toast.Message)
	})
}

func TestSubmitRegister(t *testing.T) {
	api := new(mocks.MockBackend)
	api.On("Register", mock.Anything, "alice", "alice@example.com", "secret1").
		Return(&backend.AuthResult{Result: backend.Result{Success: true, Message: "Registered successfully"}}, nil)
	form := services.NewRegisterForm()

	err := services.NewAuthFormService(api).SubmitRegister(testContext(t), form, services.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "/login", form.Redirect)
	assert.Equal(t, "Registered successfully", form.Toast.Message)

	t.Run("errors reset on each attempt", func(t *testing.T) {
		form := services.NewRegisterForm()
		svc := services.NewAuthFormService(api)
		_ = svc.SubmitRegister(testContext(t), form, services.RegisterInput{Username: "al"})
		assert.Contains(t, form.Errors, "username")

		_ = svc.SubmitRegister(testContext(t), form, services.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "nope"})
		assert.NotContains(t, form.Errors, "username")
		assert.Equal(t, "Passwords do not match", form.Errors["confirm-password"])
	})
}

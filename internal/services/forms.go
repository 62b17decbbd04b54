// filepath: internal/services/forms.go
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/models"
	"snapstream/internal/toast"
)

// FormState is the lifecycle of an auth form submission.
type FormState string

const (
	FormIdle        FormState = "idle"
	FormValidating  FormState = "validating"
	FormSubmitting  FormState = "submitting"
	FormRedirecting FormState = "redirecting"
)

// Password and username limits.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// FieldErrors maps a form field id to its single error message.
type FieldErrors map[string]string

// add keeps the first failing rule per field.
func (e FieldErrors) add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

// LoginInput is the submitted login form.
type LoginInput struct {
	Email    string
	Password string
}

// Validate checks every field and returns one message per failing field.
func (in LoginInput) Validate() FieldErrors {
	errs := FieldErrors{}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs.add("email", "Email is required")
	} else if !IsValidEmail(email) {
		errs.add("email", "Enter a valid email")
	}
	if in.Password == "" {
		errs.add("password", "Password is required")
	}
	return errs
}

// RegisterInput is the submitted registration form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks every field and returns one message per failing field.
func (in RegisterInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if len([]rune(strings.TrimSpace(in.Username))) < MinUsernameLength {
		errs.add("username", "Username must be at least 3 characters")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !IsValidEmail(email) {
		errs.add("email", "Valid email is required")
	}
	if len([]rune(in.Password)) < MinPasswordLength {
		errs.add("password", "Password must be at least 6 characters")
	}
	if in.Password != in.ConfirmPassword {
		errs.add("confirm-password", "Passwords do not match")
	}
	return errs
}

// AuthForm is the per-page state of the login or register form.
type AuthForm struct {
	Kind        string // "login" or "register"
	State       FormState
	Errors      FieldErrors
	Username    string
	Email       string
	ButtonLabel string
	BusyLabel   string
	Busy        bool
	Redirect    string
	Toast       *models.Toast
}

// NewLoginForm returns an idle login form.
func NewLoginForm() *AuthForm {
	return &AuthForm{Kind: "login", State: FormIdle, Errors: FieldErrors{}, ButtonLabel: "Login", BusyLabel: "Logging in..."}
}

// NewRegisterForm returns an idle register form.
func NewRegisterForm() *AuthForm {
	return &AuthForm{Kind: "register", State: FormIdle, Errors: FieldErrors{}, ButtonLabel: "Register", BusyLabel: "Creating account..."}
}

// begin resets the per-attempt state.
func (f *AuthForm) begin() {
	f.State = FormValidating
	f.Errors = FieldErrors{}
	f.Toast = nil
	f.Redirect = ""
}

func (f *AuthForm) invalid(errs FieldErrors) error {
	f.Errors = errs
	f.State = FormIdle
	return fmt.Errorf("%w: %d field(s)", ErrValidation, len(errs))
}

func (f *AuthForm) submitting() {
	f.State = FormSubmitting
	f.Busy = true
}

func (f *AuthForm) failed(err error, fallback string) error {
	f.State = FormIdle
	f.Busy = false
	t := toast.New(backend.UserMessage(err, fallback), toast.Error, "")
	f.Toast = &t
	return err
}

func (f *AuthForm) succeeded(res *backend.AuthResult, defaultRedirect, defaultMessage string) {
	f.State = FormRedirecting
	f.Redirect = defaultRedirect
	msg := defaultMessage
	if res != nil {
		if res.Redirect != "" {
			f.Redirect = res.Redirect
		}
		if res.Message != "" {
			msg = res.Message
		}
	}
	t := toast.New(msg, toast.Success, "")
	f.Toast = &t
}

// AuthFormService drives login and registration against the backend.
type AuthFormService struct {
	api AuthAPI
}

// NewAuthFormService creates a new AuthFormService.
func NewAuthFormService(api AuthAPI) *AuthFormService {
	return &AuthFormService{api: api}
}

// SubmitLogin validates and submits the login form. Invalid input never
// reaches the backend.
func (s *AuthFormService) SubmitLogin(ctx context.Context, f *AuthForm, in LoginInput) error {
	f.begin()
	f.Email = strings.TrimSpace(in.Email)
	if errs := in.Validate(); len(errs) > 0 {
		return f.invalid(errs)
	}

	f.submitting()
	res, err := s.api.Login(ctx, f.Email, in.Password)
	if err != nil {
		logging.Log.Infof("SubmitLogin: login rejected for '%s': %v", f.Email, err)
		return f.failed(err, "Login failed")
	}
	f.succeeded(res, "/dashboard", "Login successful")
	return nil
}

// SubmitRegister validates and submits the register form.
func (s *AuthFormService) SubmitRegister(ctx context.Context, f *AuthForm, in RegisterInput) error {
	f.begin()
	f.Username = strings.TrimSpace(in.Username)
	f.Email = strings.TrimSpace(in.Email)
	if errs := in.Validate(); len(errs) > 0 {
		return f.invalid(errs)
	}

	f.submitting()
	res, err := s.api.Register(ctx, f.Username, f.Email, in.Password)
	if err != nil {
		logging.Log.Infof("SubmitRegister: registration rejected for '%s': %v", f.Email, err)
		return f.failed(err, "Registration failed")
	}
	f.succeeded(res, "/login", "Registered successfully")
	return nil
}

// filepath: internal/services/profile.go
package services

import (
	"context"
	"fmt"
	"strings"

	"snapstream/internal/backend"
	"snapstream/internal/logging"
	"snapstream/internal/models"
	"snapstream/internal/toast"
)

// ProfileOutcome is the result of one profile action.
type ProfileOutcome struct {
	Errors   FieldErrors
	Toast    models.Toast
	Redirect string
}

// ProfileService handles the account settings forms.
type ProfileService struct {
	api ProfileAPI
}

// NewProfileService creates a new ProfileService.
func NewProfileService(api ProfileAPI) *ProfileService {
	return &ProfileService{api: api}
}

// UpdateUsername renames the current user.
func (s *ProfileService) UpdateUsername(ctx context.Context, username string) (ProfileOutcome, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		errs := FieldErrors{}
		errs.add("username", "Username is required")
		return ProfileOutcome{Errors: errs}, ErrValidation
	}

	res, err := s.api.UpdateProfile(ctx, username)
	if err != nil {
		return ProfileOutcome{Toast: toast.New(backend.UserMessage(err, "Failed to update profile"), toast.Error, "")}, err
	}
	return ProfileOutcome{Toast: toast.New(messageOr(res, "Profile updated"), toast.Success, "")}, nil
}

// ChangePassword validates and submits a password change.
func (s *ProfileService) ChangePassword(ctx context.Context, current, next, confirm string) (ProfileOutcome, error) {
	errs := FieldErrors{}
	if strings.TrimSpace(current) == "" {
		errs.add("current-password", "Current password is required")
	}
	if len([]rune(strings.TrimSpace(next))) < MinPasswordLength {
		errs.add("new-password", "New password must be at least 6 characters")
	}
	if next != confirm {
		errs.add("confirm-password", "Passwords do not match")
	}
	if len(errs) > 0 {
		return ProfileOutcome{Errors: errs}, fmt.Errorf("%w: %d field(s)", ErrValidation, len(errs))
	}

	res, err := s.api.ChangePassword(ctx, current, next)
	if err != nil {
		return ProfileOutcome{Toast: toast.New(backend.UserMessage(err, "Failed to update password"), toast.Error, "")}, err
	}
	return ProfileOutcome{Toast: toast.New(messageOr(res, "Password updated successfully"), toast.Success, "")}, nil
}

// DeleteAccount removes the account and sends the browser home.
func (s *ProfileService) DeleteAccount(ctx context.Context) (ProfileOutcome, error) {
	res, err := s.api.DeleteAccount(ctx)
	if err != nil {
		logging.Log.Warnf("DeleteAccount: backend refused: %v", err)
		return ProfileOutcome{Toast: toast.New(backend.UserMessage(err, "Failed to delete account"), toast.Error, "")}, err
	}
	out := ProfileOutcome{Toast: toast.New("Account deleted successfully", toast.Success, ""), Redirect: "/"}
	if res != nil {
		if res.Message != "" {
			out.Toast.Message = res.Message
		}
		if res.Redirect != "" {
			out.Redirect = res.Redirect
		}
	}
	return out, nil
}

func messageOr(res *backend.Result, fallback string) string {
	if res != nil && res.Message != "" {
		return res.Message
	}
	return fallback
}

// filepath: internal/services/service_errors.go
package services

import "errors"

// Standard errors returned by the service layer.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrNoSelection    = errors.New("no file selected")
	ErrUnsupported    = errors.New("unsupported media type")
	ErrTooLarge       = errors.New("file too large")
	ErrInvalidState   = errors.New("invalid state for operation")
	ErrUploadRejected = errors.New("upload rejected")
)

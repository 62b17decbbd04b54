package backend

import (
	"context"
	"errors"
	"fmt"
)

// Transport-level failures. Both are shown to users as a generic server error.
var (
	ErrNetwork           = errors.New("network error")
	ErrMalformedResponse = errors.New("invalid response from server")
)

// GenericServerMessage is shown for transport failures.
const GenericServerMessage = "Server error. Try again."

// APIError is an application error reported by the backend: a non-2xx status
// or a body with "success": false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsTransport reports whether err is a network or decoding failure rather than
// an answer from the backend.
func IsTransport(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// UserMessage turns err into the text shown in a toast. Backend messages are
// passed through verbatim; transport failures become GenericServerMessage.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if IsTransport(err) {
		return GenericServerMessage
	}
	return fallback
}

package shared

// Error is a constant error value.
type Error string

func (e Error) Error() string { return string(e) }

// config file errors
const (
	ErrorCreateFile = Error("could not create the file")
	ErrorEncodeFile = Error("could not encode to file")
)

// frontend cookie errors
const (
	ErrMissingSecret = Error("cookie secret must not be empty")
	ErrInvalidCookie = Error("invalid or expired cookie")
)

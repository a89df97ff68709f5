package project

import "errors"

// Validation errors. They are all detected before any external process runs.
var (
	ErrConflictingFlags   = errors.New("conflicting flags")
	ErrMissingName        = errors.New("missing project name")
	ErrInvalidName        = errors.New("invalid project name")
	ErrDirectoryExists    = errors.New("directory already exists")
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// ErrHelp is returned when the user asked for usage information.
var ErrHelp = errors.New("help requested")

// IsValidation reports whether err is one of the validation errors above.
func IsValidation(err error) bool {
	return errors.Is(err, ErrConflictingFlags) ||
		errors.Is(err, ErrMissingName) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrDirectoryExists) ||
		errors.Is(err, ErrUnexpectedArgument)
}

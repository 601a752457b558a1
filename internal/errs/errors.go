package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnprocessable is used for semantic validation failures (HTTP 422)
	ErrUnprocessable = errors.New("unprocessable")
	// ErrAsymmetricChange indicates a modification whose new values are not
	// mirrored by matching previous values.
	ErrAsymmetricChange = errors.New("asymmetric_change")
	// ErrEmptyChange indicates a modification that changes nothing.
	ErrEmptyChange = errors.New("empty_change")
)

package scheduler

import "errors"

// Failure kinds for expected business conditions. Operations wrap these with
// a human-readable reason, so callers branch with errors.Is and surface the
// message as-is. Anything not wrapping one of these is a storage fault.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Expected reports whether err is one of the typed business failures.
func Expected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation)
}

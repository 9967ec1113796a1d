package domain

import "errors"

// Sentinel errors shared by every layer. Callers wrap them with context via
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)

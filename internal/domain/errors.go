package domain

import "errors"

// Error kinds. Callers wrap these with fmt.Errorf("%w: ...") and the
// transport layer maps them to status codes with errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrReferentialIntegrity = errors.New("referenced record does not exist")
	ErrConstraintViolation  = errors.New("constraint violation")
)

// internal/errs/errs.go
//
// Typed failures shared by the store, service, and transport layers.
//
// Context
// -------
// Three error kinds cover every caller-visible failure in the service:
//
//   - ValidationError — malformed input (bad language code, bad domain
//     name).  Always caller-fixable; mapped to HTTP 400.
//   - NotFoundError   — referenced domain or config absent, domain
//     inactive, or resolution exhausted every fallback step; HTTP 404.
//   - DuplicateError  — uniqueness violation or cycle-forming fallback
//     assignment, detected before any row is written; HTTP 409.
//
// Each kind is a distinct struct so the transport layer can dispatch with
// errors.As without string matching.  Anything else bubbles up as a plain
// error and maps to HTTP 500.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError marks input the caller can fix.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError marks an absent or invisible resource.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// DuplicateError marks a uniqueness or cycle violation.
type DuplicateError struct{ Msg string }

func (e *DuplicateError) Error() string { return e.Msg }

// Validationf builds a *ValidationError with fmt semantics.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a *NotFoundError with fmt semantics.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// Duplicatef builds a *DuplicateError with fmt semantics.
func Duplicatef(format string, args ...any) error {
	return &DuplicateError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var t *ValidationError
	return errors.As(err, &t)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

// IsDuplicate reports whether err is (or wraps) a DuplicateError.
func IsDuplicate(err error) bool {
	var t *DuplicateError
	return errors.As(err, &t)
}

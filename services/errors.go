package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed = errors.New("validation failed")
	ErrNameRequired     = errors.New("student name is required")
	ErrHandleRequired   = errors.New("codeforces handle is required")
	ErrEmailInvalid     = errors.New("email address is invalid")

	// Conflict errors
	ErrEmailConflict  = errors.New("email address is already in use")
	ErrHandleConflict = errors.New("codeforces handle is already in use")

	// Entity-specific errors
	ErrStudentNotFound = errors.New("student not found")

	// ErrSyncFailed wraps a judge fetch or reconcile failure for one
	// student. The student record itself may still have been written.
	ErrSyncFailed = errors.New("codeforces sync failed")
)

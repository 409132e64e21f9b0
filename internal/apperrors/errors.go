package apperrors

import "errors"

// Sentinel errors returned by the service layer. The api package maps each
// one to an HTTP status; everything else is treated as an internal error.
var (
	// Resource errors
	ErrEventNotFound = errors.New("event not found")
	ErrUserNotFound  = errors.New("user not found")

	// State errors
	ErrEventNotRegistrable = errors.New("event is not open for registration")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
)

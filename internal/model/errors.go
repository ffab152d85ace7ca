package model

import (
	"errors"
	"strings"
)

// Error kinds. Every specific error below wraps exactly one kind so that the
// HTTP layer can map on the kind while services and tests can still match
// the precise failure with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// kindError carries a human readable message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error { return &kindError{kind: kind, msg: msg} }

// Not found.
var (
	ErrVenueNotFound   = newError(ErrNotFound, "venue not found")
	ErrBookingNotFound = newError(ErrNotFound, "booking not found")
	ErrPaymentNotFound = newError(ErrNotFound, "payment not found")
	ErrTicketNotFound  = newError(ErrNotFound, "support ticket not found")
	ErrUserNotFound    = newError(ErrNotFound, "user not found")
)

// Conflicts.
var (
	ErrBookingConflict   = newError(ErrConflict, "venue is already booked for the selected date range")
	ErrInvalidTransition = newError(ErrConflict, "booking status transition not allowed")
	ErrAlreadyPaid       = newError(ErrConflict, "booking is already paid")
	ErrUsernameTaken     = newError(ErrConflict, "username already exists")
	ErrEmailTaken        = newError(ErrConflict, "email already exists")
)

// Validation.
var (
	ErrInvalidRole             = newError(ErrValidation, "invalid role")
	ErrMissingField            = newError(ErrValidation, "required field missing")
	ErrInvalidStatus           = newError(ErrValidation, "invalid status")
	ErrInvalidDateRange        = newError(ErrValidation, "invalid date range")
	ErrVenueUnavailable        = newError(ErrValidation, "venue is under maintenance")
	ErrResolutionNotesRequired = newError(ErrValidation, "resolution notes are required")
	ErrNotEventManager         = newError(ErrValidation, "user is not an event manager")
)

// Authentication.
var (
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	ErrInvalidRefresh     = newError(ErrUnauthorized, "invalid refresh token")
	ErrAccountDisabled    = newError(ErrForbidden, "account is pending admin approval")
	ErrNotOwner           = newError(ErrForbidden, "resource belongs to another user")
)

// Message returns the client-facing text of a domain error: the specific
// error's message plus any detail wrapped after it, without the operation
// prefixes added on the way up. It returns "" for errors of no known kind.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return tail(err.Error(), ke.msg)
	}
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrValidation, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return tail(err.Error(), kind.Error())
		}
	}
	return ""
}

func tail(s, from string) string {
	if i := strings.Index(s, from); i >= 0 {
		return s[i:]
	}
	return from
}

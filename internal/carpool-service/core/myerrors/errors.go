package myerrors

import "errors"

// Request-fatal errors. These abort the whole operation before any remote
// call is attempted.
var (
	ErrValidation       = errors.New("validation failed")
	ErrRideNotFound     = errors.New("ride not found")
	ErrRideUnavailable  = errors.New("ride unavailable")
	ErrDuplicateBooking = errors.New("passenger already booked this ride")
	ErrForbidden        = errors.New("only the driver may do this")
)

// Remote ledger errors. The coordinator downgrades these to a warning on
// an otherwise-successful local result, they never roll back a local write.
var (
	ErrLedgerUnavailable = errors.New("ledger unreachable")
	ErrRemoteRejected    = errors.New("ledger rejected the call")
)

// Content store errors.
var (
	ErrStoreUnavailable = errors.New("content store unreachable")
	ErrContentNotFound  = errors.New("content not found")
)

// Auth errors.
var (
	ErrUnknownEmail    = errors.New("unknown email")
	ErrPasswordUnknown = errors.New("unknown password")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailRegistered = errors.New("email already registered")
	ErrOTPRequired     = errors.New("otp code required")
	ErrOTPInvalid      = errors.New("invalid otp code")
)

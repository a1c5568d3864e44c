package services

import "errors"

// Stable error taxonomy for the auth and note flows. Handlers map these
// to HTTP status codes with errors.Is; no other error text reaches the
// client.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("please verify your email first")
	ErrUserNotFound       = errors.New("user not found")
	ErrOTPNotRequested    = errors.New("otp not requested or already used")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("invalid otp")
	ErrAccountConflict    = errors.New("account exists with a different sign-in method")
	ErrMailDispatch       = errors.New("failed to send otp email")
	ErrInvalidAssertion   = errors.New("invalid identity assertion")
	ErrNoteNotFound       = errors.New("note not found")
)

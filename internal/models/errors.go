package models

import "errors"

// Domain errors. Every core operation validates before it mutates, so a
// returned error always means state was left untouched. Handlers map
// these onto HTTP statuses and user-facing messages.

// Registration / profile validation.
var (
	ErrMissingAadhar        = errors.New("aadhar id is required")
	ErrPasswordMismatch     = errors.New("password and confirm password must be the same")
	ErrPasswordTooLong      = errors.New("password must not exceed 30 characters")
	ErrInvalidContactNumber = errors.New("contact number must be 10 digits")
	ErrNameTooLong          = errors.New("first name and last name must not exceed 50 characters")
	ErrAddressTooLong       = errors.New("address must not exceed 100 characters")
	ErrDuplicateEmail       = errors.New("this email is already registered")
)

// Authentication.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Balance operations.
var (
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrExceedsMaxWithdrawal = errors.New("maximum withdrawal amount is $1000")
	ErrInsufficientFunds    = errors.New("insufficient balance for this withdrawal")
	ErrBelowMinimumBalance  = errors.New("minimum balance after withdrawal should be $500")
)

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

package models

import "errors"

// APIError is the body of every error response
type APIError struct {
	Message string `json:"message"`
}

// NewAPIError creates a new API error with the given message
func NewAPIError(message string) APIError {
	return APIError{Message: message}
}

// Error kinds. Match them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUpstream           = errors.New("upstream failure")
	ErrRateLimited        = errors.New("rate limited")
)

// Error pairs an error kind with the message shown to API clients
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError creates an Error of the given kind
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error of the given kind that keeps cause in its chain
func WrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Messages shared between layers
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgUnauthenticated    = "Please authenticate"
	MsgAccessDenied       = "Access denied"
	MsgInsuranceNotFound  = "Insurance not found"
	MsgIMEIRequired       = "IMEI is required"
	MsgInvalidStatus      = "Invalid status or IMEI"
	MsgUserExists         = "User already exists"
	MsgTooManyRequests    = "Too many requests"
	MsgInternal           = "Internal server error"
)

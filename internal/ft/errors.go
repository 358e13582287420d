package ft

import "errors"

// User-facing failure messages. The tracker never exposes backend detail
// beyond these; the underlying cause stays reachable through errors.As.
var (
	ErrLoadFailed    = errors.New("Failed to load flights from backend")
	ErrCreateFailed  = errors.New("Failed to add flight")
	ErrDeleteFailed  = errors.New("Failed to delete flight")
	ErrRefreshFailed = errors.New("Failed to refresh flights")
)

// Input validation errors returned by NormalizeFlightNumber.
var (
	ErrFlightNumberRequired = errors.New("Flight number is required")
	ErrFlightNumberTooShort = errors.New("Flight number must be at least 3 characters")
)

// opError pairs a fixed user-facing message with the cause that produced it.
type opError struct {
	msg   error
	cause error
}

func (e *opError) Error() string {
	if e.cause == nil {
		return e.msg.Error()
	}
	return e.msg.Error() + ": " + e.cause.Error()
}

func (e *opError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.msg}
	}
	return []error{e.msg, e.cause}
}

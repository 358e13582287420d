package api

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every error returned by Client, via errors.Is.
var ErrRequestFailed = errors.New("request failed")

// RequestFailedError is the single error kind the client produces: a non-2xx
// response or a transport failure. StatusCode is 0 when no response arrived.
type RequestFailedError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: HTTP error! status: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP error! status: %d", e.Method, e.Path, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, ErrRequestFailed)
	}
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// Retryable reports whether repeating the same idempotent request may succeed.
func (e *RequestFailedError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

package api

import (
	"errors"
	"fmt"
)

// Error wraps any transport or API failure from the marketplace. Nothing
// here is fatal: callers surface it as a retryable message.
type Error struct {
	StatusCode int    // 0 when the request never reached the server
	Endpoint   string
	Message    string // server-provided message when present
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("marketplace %s: http %d: %s", e.Endpoint, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("marketplace %s: http %d", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("marketplace %s: %v", e.Endpoint, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNetworkFailure reports whether err originated from the marketplace
// transport, as opposed to local validation.
func IsNetworkFailure(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

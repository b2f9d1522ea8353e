package flows

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/yakhteh/yakhteh/internal/api"
)

// MissingTokenMessage is shown when login succeeds without a token.
const MissingTokenMessage = "Login succeeded but no token returned"

// AuthFailure is a rejection from the remote API.
type AuthFailure struct {
	Op  string
	Err *api.HTTPError
}

func (e *AuthFailure) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *AuthFailure) Unwrap() error { return e.Err }

// Detail returns the server-provided reason, if any.
func (e *AuthFailure) Detail() string { return e.Err.Detail }

// MissingTokenError reports a login success body with no token field.
type MissingTokenError struct{}

func (e *MissingTokenError) Error() string { return MissingTokenMessage }

// TransportError wraps network and timeout failures.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// classify sorts a Request Client error into the flow taxonomy.
func classify(op string, err error) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return &AuthFailure{Op: op, Err: httpErr}
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TransportError{Op: op, Err: err}
	}
	return err
}

// UserMessage turns a flow error into the single line shown to the user:
// the server's detail when present, otherwise a message for the failure
// kind, otherwise fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var authErr *AuthFailure
	var missing *MissingTokenError
	var transportErr *TransportError
	switch {
	case errors.As(err, &authErr):
		if d := authErr.Detail(); d != "" {
			return d
		}
		return authErr.Err.Error()
	case errors.As(err, &missing):
		return MissingTokenMessage
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return "Request timed out"
		}
		return "Network error: could not reach the server"
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

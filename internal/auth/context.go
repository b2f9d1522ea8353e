package auth

import (
	"context"
	"errors"
)

// ErrNoSession is matched by the ConfigurationError returned when code asks
// for a session that was never installed.
var ErrNoSession = errors.New("session must be used within a session provider")

// ConfigurationError reports a programming mistake: the session was used
// outside the scope that provides it.
type ConfigurationError struct {
	Op string
}

func (e *ConfigurationError) Error() string {
	if e.Op == "" {
		return ErrNoSession.Error()
	}
	return e.Op + ": " + ErrNoSession.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNoSession
}

type sessionKey struct{}

// WithSession returns a copy of ctx that carries s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session installed by WithSession.
func FromContext(ctx context.Context) (*Session, error) {
	if ctx != nil {
		if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s != nil {
			return s, nil
		}
	}
	return nil, &ConfigurationError{Op: "auth.FromContext"}
}

// MustFromContext is like FromContext but panics with the
// ConfigurationError. Use it only where a missing session is a wiring bug.
func MustFromContext(ctx context.Context) *Session {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

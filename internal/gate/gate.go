// Package gate decides whether a route may be shown for the current session.
package gate

import (
	"log/slog"
	"path"
	"strings"
)

// Route paths used across the client.
const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
	RootPath      = "/"
)

// State is the gate's view of the session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Checker reports whether a session token is present.
type Checker interface {
	Authenticated() bool
}

// Decision is the outcome of evaluating a navigation.
type Decision struct {
	Allow bool
	// Redirect is set when Allow is false.
	Redirect string
	// From is the originally requested path, kept so the caller can return
	// there after login.
	From string
}

// Gate guards protected routes. It never verifies the token with the
// server; a rejected token only surfaces on the next API call.
type Gate struct {
	session   Checker
	protected map[string]bool
	log       *slog.Logger
}

// New returns a gate protecting the given paths.
func New(session Checker, logger *slog.Logger, protected ...string) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{session: session, protected: make(map[string]bool, len(protected)), log: logger}
	for _, p := range protected {
		g.protected[Clean(p)] = true
	}
	return g
}

// State derives the current state from the session on every call, so a
// store cleared underneath is seen on the next evaluation.
func (g *Gate) State() State {
	if g.session.Authenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// IsProtected reports whether p requires a session.
func (g *Gate) IsProtected(p string) bool {
	return g.protected[Clean(p)]
}

// Evaluate decides the outcome of navigating to p.
func (g *Gate) Evaluate(p string) Decision {
	p = Clean(p)
	if !g.protected[p] || g.State() == Authenticated {
		return Decision{Allow: true}
	}
	g.log.Info("gate redirect", "from", p, "to", LoginPath)
	return Decision{Redirect: LoginPath, From: p}
}

// Clean normalises a route path.
func Clean(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return RootPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Package flows implements login, registration and logout on top of the
// API client and the session.
package flows

import (
	"context"
	"log/slog"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/auth"
	"github.com/yakhteh/yakhteh/internal/gate"
)

// Fallback messages when an error carries no text of its own.
const (
	LoginFailed        = "Login failed"
	RegistrationFailed = "Registration failed"
	RegisteredNotice   = "Registration successful. Please login."
)

// Authenticator is the part of the API client the flows use.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
	Register(ctx context.Context, r api.RegisterRequest) ([]byte, error)
}

// Result tells the caller where to go next.
type Result struct {
	Navigate string
	Notice   string
}

// Flows wires the API client to the session.
type Flows struct {
	api Authenticator
	log *slog.Logger
}

// New creates the auth flows. The session each flow acts on is taken from
// the context passed to it; see auth.WithSession.
func New(client Authenticator, logger *slog.Logger) *Flows {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flows{api: client, log: logger}
}

// Login signs in and installs the returned token. The session is left
// untouched on every failure path.
func (f *Flows) Login(ctx context.Context, email, password string) (Result, error) {
	session, err := auth.FromContext(ctx)
	if err != nil {
		f.log.Error("login outside a session scope", "err", err)
		return Result{}, err
	}

	resp, err := f.api.Login(ctx, email, password)
	if err != nil {
		f.log.Info("login rejected", "err", err)
		return Result{}, classify("login", err)
	}

	token, ok := resp.BearerToken()
	if !ok {
		f.log.Warn("login response carried no token")
		return Result{}, &MissingTokenError{}
	}
	if err := session.SetToken(token); err != nil {
		return Result{}, err
	}
	return Result{Navigate: gate.DashboardPath}, nil
}

// Register creates an account. It never signs the user in.
func (f *Flows) Register(ctx context.Context, r api.RegisterRequest) (Result, error) {
	if _, err := f.api.Register(ctx, r); err != nil {
		f.log.Info("registration rejected", "err", err)
		return Result{}, classify("register", err)
	}
	return Result{Navigate: gate.LoginPath, Notice: RegisteredNotice}, nil
}

// Logout clears the session carried by ctx.
func (f *Flows) Logout(ctx context.Context) (Result, error) {
	session, err := auth.FromContext(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := session.Logout(); err != nil {
		return Result{}, err
	}
	return Result{Navigate: gate.LoginPath}, nil
}

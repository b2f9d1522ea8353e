package flows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/auth"
	"github.com/yakhteh/yakhteh/internal/credstore"
	"github.com/yakhteh/yakhteh/internal/gate"
)

type fakeAPI struct {
	loginResp   api.LoginResponse
	loginErr    error
	registerErr error
	registered  []api.RegisterRequest
}

func (f *fakeAPI) Login(context.Context, string, string) (api.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, r api.RegisterRequest) ([]byte, error) {
	f.registered = append(f.registered, r)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return []byte(`{}`), nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newFixture(client *fakeAPI) (*Flows, context.Context, *auth.Session, *credstore.MemoryStore) {
	store := credstore.NewMemoryStore(nil)
	session := auth.NewSession(store, discard())
	ctx := auth.WithSession(context.Background(), session)
	return New(client, discard()), ctx, session, store
}

func strPtr(s string) *string { return &s }

func TestLoginInstallsAccessToken(t *testing.T) {
	f, ctx, session, store := newFixture(&fakeAPI{loginResp: api.LoginResponse{AccessToken: strPtr("abc")}})

	res, err := f.Login(ctx, "a@b.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Navigate != gate.DashboardPath {
		t.Fatalf("navigate = %q", res.Navigate)
	}
	if session.Token() != "abc" {
		t.Fatalf("session token = %q", session.Token())
	}
	if v, ok, _ := store.Read(credstore.TokenKey); !ok || v != "abc" {
		t.Fatalf("store = %q ok %v", v, ok)
	}
}

func TestLoginAcceptsTokenField(t *testing.T) {
	f, ctx, session, _ := newFixture(&fakeAPI{loginResp: api.LoginResponse{Token: strPtr("legacy")}})
	if _, err := f.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token() != "legacy" {
		t.Fatalf("session token = %q", session.Token())
	}
}

func TestLoginWithoutTokenLeavesSession(t *testing.T) {
	f, ctx, session, _ := newFixture(&fakeAPI{})

	_, err := f.Login(ctx, "a@b.c", "pw")
	var missing *MissingTokenError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingTokenError", err)
	}
	if got := UserMessage(err, LoginFailed); got != "Login succeeded but no token returned" {
		t.Fatalf("message = %q", got)
	}
	if session.Token() != "" {
		t.Fatalf("session token = %q, want empty", session.Token())
	}
}

func TestLoginRejectedShowsDetail(t *testing.T) {
	f, ctx, session, _ := newFixture(&fakeAPI{
		loginErr: &api.HTTPError{StatusCode: 401, Detail: "bad credentials"},
	})

	_, err := f.Login(ctx, "a@b.c", "pw")
	var authErr *AuthFailure
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want *AuthFailure", err)
	}
	if got := UserMessage(err, LoginFailed); got != "bad credentials" {
		t.Fatalf("message = %q, want exactly %q", got, "bad credentials")
	}
	if session.Token() != "" {
		t.Fatalf("session token = %q", session.Token())
	}
}

func TestLoginRejectedKeepsExistingToken(t *testing.T) {
	client := &fakeAPI{loginErr: &api.HTTPError{StatusCode: 401}}
	f, ctx, session, _ := newFixture(client)
	_ = session.SetToken("old")

	_, err := f.Login(ctx, "a@b.c", "pw")
	if got := UserMessage(err, LoginFailed); got != "request failed with status code 401" {
		t.Fatalf("message = %q", got)
	}
	if session.Token() != "old" {
		t.Fatalf("session token = %q, want old", session.Token())
	}
}

func TestLoginTransportError(t *testing.T) {
	netErr := &url.Error{Op: "Post", URL: "http://localhost:8001", Err: errors.New("connection refused")}
	f, ctx, _, _ := newFixture(&fakeAPI{loginErr: netErr})

	_, err := f.Login(ctx, "a@b.c", "pw")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if !errors.Is(err, netErr) {
		t.Fatal("transport error does not wrap the original")
	}
	if got := UserMessage(err, LoginFailed); got != "Network error: could not reach the server" {
		t.Fatalf("message = %q", got)
	}
}

func TestTimeoutMessage(t *testing.T) {
	err := classify("login", fmt.Errorf("post: %w", context.DeadlineExceeded))
	if got := UserMessage(err, LoginFailed); got != "Request timed out" {
		t.Fatalf("message = %q", got)
	}
}

func TestRegisterDoesNotSignIn(t *testing.T) {
	client := &fakeAPI{}
	f, ctx, session, _ := newFixture(client)

	req := api.RegisterRequest{FullName: "Dr. A", Email: "a@b.c", Password: "secret123", WorkspaceName: "Clinic"}
	res, err := f.Register(ctx, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Navigate != gate.LoginPath || res.Notice != RegisteredNotice {
		t.Fatalf("result = %+v", res)
	}
	if session.Token() != "" {
		t.Fatalf("session token = %q", session.Token())
	}
	if len(client.registered) != 1 || client.registered[0] != req {
		t.Fatalf("registered = %+v", client.registered)
	}
}

func TestRegisterRejected(t *testing.T) {
	f, ctx, _, _ := newFixture(&fakeAPI{registerErr: &api.HTTPError{StatusCode: 400, Detail: "Email already registered"}})
	_, err := f.Register(ctx, api.RegisterRequest{})
	if got := UserMessage(err, RegistrationFailed); got != "Email already registered" {
		t.Fatalf("message = %q", got)
	}
}

func TestLogout(t *testing.T) {
	f, ctx, session, store := newFixture(&fakeAPI{})
	_ = session.SetToken("abc")

	for i := 0; i < 2; i++ {
		res, err := f.Logout(ctx)
		if err != nil {
			t.Fatalf("logout #%d: %v", i+1, err)
		}
		if res.Navigate != gate.LoginPath {
			t.Fatalf("navigate = %q", res.Navigate)
		}
	}
	if _, ok, _ := store.Read(credstore.TokenKey); ok {
		t.Fatal("store still holds token")
	}
}

func TestUserMessageFallback(t *testing.T) {
	if got := UserMessage(errors.New(""), RegistrationFailed); got != RegistrationFailed {
		t.Fatalf("message = %q", got)
	}
	if got := UserMessage(nil, LoginFailed); got != "" {
		t.Fatalf("nil message = %q", got)
	}
}

func TestPlainTextSuccessBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/register" {
			w.WriteHeader(http.StatusCreated)
		}
		_, _ = io.WriteString(w, "Created")
	}))
	defer srv.Close()

	store := credstore.NewMemoryStore(nil)
	session := auth.NewSession(store, discard())
	client, err := api.NewClient(srv.URL+"/api/v1", time.Second, session, api.WithLogger(discard()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	f := New(client, discard())
	ctx := auth.WithSession(context.Background(), session)

	res, err := f.Register(ctx, api.RegisterRequest{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Navigate != gate.LoginPath || res.Notice != RegisteredNotice {
		t.Fatalf("result = %+v", res)
	}

	_, err = f.Login(ctx, "a@b.c", "pw")
	var missing *MissingTokenError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingTokenError", err)
	}
	if got := UserMessage(err, LoginFailed); got != MissingTokenMessage {
		t.Fatalf("message = %q", got)
	}
	if session.Authenticated() {
		t.Fatal("session signed in without a token")
	}
}

func TestFlowsOutsideSessionScope(t *testing.T) {
	client := &fakeAPI{loginResp: api.LoginResponse{AccessToken: strPtr("abc")}}
	f := New(client, discard())

	_, err := f.Login(context.Background(), "a@b.c", "pw")
	var cfgErr *auth.ConfigurationError
	if !errors.As(err, &cfgErr) || !errors.Is(err, auth.ErrNoSession) {
		t.Fatalf("login err = %v, want *auth.ConfigurationError", err)
	}
	if got := UserMessage(err, LoginFailed); got != err.Error() {
		t.Fatalf("message = %q", got)
	}

	if _, err := f.Logout(context.Background()); !errors.As(err, &cfgErr) {
		t.Fatalf("logout err = %v, want *auth.ConfigurationError", err)
	}
}

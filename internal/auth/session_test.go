package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/yakhteh/yakhteh/internal/credstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetTokenKeepsStoreInStep(t *testing.T) {
	store := credstore.NewMemoryStore(nil)
	s := NewSession(store, discardLogger())

	for _, tok := range []string{"a", "b", "", "c", "", ""} {
		if err := s.SetToken(tok); err != nil {
			t.Fatalf("SetToken(%q): %v", tok, err)
		}
		if got := s.Token(); got != tok {
			t.Fatalf("Token() after SetToken(%q) = %q", tok, got)
		}
		stored, ok, _ := store.Read(credstore.TokenKey)
		if tok == "" {
			if ok {
				t.Fatalf("store still holds %q after clear", stored)
			}
			continue
		}
		if !ok || stored != tok {
			t.Fatalf("store = %q ok %v, want %q", stored, ok, tok)
		}
	}
}

func TestNewSessionRehydratesFromStore(t *testing.T) {
	store := credstore.NewMemoryStore(map[string]string{credstore.TokenKey: "V"})
	s := NewSession(store, discardLogger())
	if got := s.Token(); got != "V" {
		t.Fatalf("Token() = %q, want V", got)
	}
	if !s.Authenticated() {
		t.Fatal("expected authenticated after rehydration")
	}
}

func TestLogoutTwice(t *testing.T) {
	store := credstore.NewMemoryStore(map[string]string{credstore.TokenKey: "V"})
	s := NewSession(store, discardLogger())
	for i := 0; i < 2; i++ {
		if err := s.Logout(); err != nil {
			t.Fatalf("logout #%d: %v", i+1, err)
		}
		if s.Token() != "" || s.Authenticated() {
			t.Fatalf("logout #%d left token %q", i+1, s.Token())
		}
	}
}

type failingStore struct {
	credstore.Store
	err error
}

func (f failingStore) Write(string, string) error { return f.err }

func TestSetTokenStoreFailureLeavesStateUntouched(t *testing.T) {
	boom := errors.New("disk full")
	s := NewSession(failingStore{Store: credstore.NewMemoryStore(nil), err: boom}, discardLogger())

	notified := false
	s.Subscribe(func(string) { notified = true })

	if err := s.SetToken("abc"); !errors.Is(err, boom) {
		t.Fatalf("SetToken err = %v, want %v", err, boom)
	}
	if s.Token() != "" {
		t.Fatalf("token changed to %q despite store failure", s.Token())
	}
	if notified {
		t.Fatal("observer notified despite store failure")
	}
}

func TestSubscribeIsSynchronous(t *testing.T) {
	s := NewSession(credstore.NewMemoryStore(nil), discardLogger())

	var seen []string
	unsubscribe := s.Subscribe(func(tok string) {
		// The observer must already see the new value.
		if s.Token() != tok {
			t.Errorf("observer saw Token() = %q, notified with %q", s.Token(), tok)
		}
		seen = append(seen, tok)
	})

	_ = s.SetToken("abc")
	if len(seen) != 1 || seen[0] != "abc" {
		t.Fatalf("seen = %v after SetToken returned", seen)
	}

	unsubscribe()
	_ = s.Logout()
	if len(seen) != 1 {
		t.Fatalf("observer called after unsubscribe: %v", seen)
	}
}

func TestFromContext(t *testing.T) {
	_, err := FromContext(context.Background())
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *ConfigurationError", err)
	}
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}

	s := NewSession(credstore.NewMemoryStore(nil), discardLogger())
	got, err := FromContext(WithSession(context.Background(), s))
	if err != nil || got != s {
		t.Fatalf("FromContext = %p, %v; want %p", got, err, s)
	}
}

func TestMustFromContextPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoSession) {
			t.Fatalf("recovered %v, want ErrNoSession", r)
		}
	}()
	MustFromContext(context.Background())
}

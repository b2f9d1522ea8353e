package auth

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/yakhteh/yakhteh/internal/credstore"
)

// Session holds the current bearer token and keeps it in step with the
// credential store. The empty string means no one is signed in.
type Session struct {
	store credstore.Store
	log   *slog.Logger

	mu        sync.RWMutex
	token     string
	observers map[int]func(string)
	nextID    int
}

// NewSession creates a session seeded from the store. The store is read
// exactly once here; a read failure leaves the session signed out.
func NewSession(store credstore.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store:     store,
		log:       logger,
		observers: make(map[int]func(string)),
	}

	token, ok, err := store.Read(credstore.TokenKey)
	switch {
	case err != nil:
		logger.Warn("reading stored credentials", "err", err)
	case ok && token != "":
		s.token = token
		logger.Info("session restored from store")
	}
	return s
}

// Token returns the current token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken installs t, or clears the session when t is empty. The store is
// updated first; if that fails the in-memory token is left unchanged.
// Observers run before SetToken returns.
func (s *Session) SetToken(t string) error {
	s.mu.Lock()
	if t != "" {
		if err := s.store.Write(credstore.TokenKey, t); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("persisting token: %w", err)
		}
	} else {
		if err := s.store.Remove(credstore.TokenKey); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("removing token: %w", err)
		}
	}
	s.token = t
	observers := make([]func(string), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	if t != "" {
		s.log.Info("session token set")
	} else {
		s.log.Info("session cleared")
	}
	for _, fn := range observers {
		fn(t)
	}
	return nil
}

// Logout clears the session. Calling it when already signed out is a no-op
// apart from notifying observers again.
func (s *Session) Logout() error {
	return s.SetToken("")
}

// Subscribe registers fn to be called synchronously after every SetToken.
// The returned function removes the observer.
func (s *Session) Subscribe(fn func(token string)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

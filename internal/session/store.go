// Package session keeps the auth token of the local user and persists it
// under a single durable key.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Key is the durable key the token is stored under.
const Key = "accessToken"

var ErrEmptyToken = errors.New("session: empty token")

// Storage persists the token. Load returns "" with a nil error when nothing
// is stored.
type Storage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// Logger provides minimal logging required by the store.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Listener observes token transitions. prev and next are "" for no session.
type Listener func(prev, next string)

// Store holds the current token. One Store is shared by the whole process.
type Store struct {
	storage Storage
	logger  Logger

	notifyMu  sync.Mutex
	mu        sync.RWMutex
	token     string
	listeners []Listener
}

// NewStore reads the persisted token once. A read failure is logged and the
// store starts logged out.
func NewStore(ctx context.Context, storage Storage, logger Logger) *Store {
	s := &Store{storage: storage, logger: logger}
	if storage == nil {
		return s
	}
	token, err := storage.Load(ctx)
	if err != nil {
		s.errorf("session: load %s: %v", Key, err)
		return s
	}
	s.token = strings.TrimSpace(token)
	return s
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// SetToken stores token, persists it and notifies listeners. The in-memory
// session changes even when persisting fails; the error is returned.
func (s *Store) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	var err error
	if s.storage != nil {
		if err = s.storage.Save(ctx, token); err != nil {
			err = fmt.Errorf("session: save %s: %w", Key, err)
			s.errorf("%v", err)
		}
	}
	s.transition(token)
	return err
}

// ClearToken logs out: the persisted copy is removed and listeners are
// notified.
func (s *Store) ClearToken(ctx context.Context) error {
	var err error
	if s.storage != nil {
		if err = s.storage.Remove(ctx); err != nil {
			err = fmt.Errorf("session: remove %s: %w", Key, err)
			s.errorf("%v", err)
		}
	}
	s.transition("")
	return err
}

// Subscribe registers fn and returns a function removing it. Listeners run
// in transition order outside the store lock and must not change the token.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[idx] = nil
	}
}

func (s *Store) transition(next string) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.token
	s.token = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if l != nil {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	if prev == next {
		return
	}
	if s.logger != nil {
		s.logger.Infof("session: logged_in=%t", next != "")
	}
	for _, l := range listeners {
		l(prev, next)
	}
}

func (s *Store) errorf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Errorf(format, args...)
	}
}

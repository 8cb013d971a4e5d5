// Package saved mirrors the bookmarked listings of the logged in user.
package saved

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/exp/slices"

	"auctionmap/internal/api"
	"auctionmap/internal/models"
)

var (
	// ErrLoginRequired is returned by Toggle without a session. The text is
	// shown to the user as-is.
	ErrLoginRequired = errors.New("로그인이 필요합니다.")
	// ErrMutationInFlight rejects a second add/remove on an id whose first
	// request has not answered yet.
	ErrMutationInFlight = errors.New("이미 처리 중인 요청입니다.")
	// ErrSuperseded means the session changed while the request was running
	// and its result was dropped.
	ErrSuperseded = errors.New("saved: result discarded after session change")
)

// Backend is the remote bookmark API.
type Backend interface {
	ListSavedItems(ctx context.Context) ([]models.Listing, error)
	AddSavedItem(ctx context.Context, id models.ListingID) error
	DeleteSavedItem(ctx context.Context, id models.ListingID) error
}

// Session reports the current token.
type Session interface {
	Token() string
}

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Listener receives the sorted id set after every change.
type Listener func(ids []models.ListingID)

// Store is the process-wide saved item set.
type Store struct {
	backend Backend
	session Session
	logger  Logger

	notifyMu    sync.Mutex
	mu          sync.Mutex
	ids         map[models.ListingID]struct{}
	epoch       uint64
	fetchGen    uint64
	fetching    bool
	overlay     map[models.ListingID]bool
	inFlight    map[models.ListingID]struct{}
	fetchCancel context.CancelFunc
	listeners   []Listener

	wg sync.WaitGroup
}

func NewStore(backend Backend, session Session, logger Logger) *Store {
	return &Store{
		backend:  backend,
		session:  session,
		logger:   logger,
		ids:      map[models.ListingID]struct{}{},
		overlay:  map[models.ListingID]bool{},
		inFlight: map[models.ListingID]struct{}{},
	}
}

// IDs returns the saved ids in ascending order.
func (s *Store) IDs() []models.ListingID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Contains(id models.ListingID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Subscribe registers fn and returns a function removing it. Listeners run
// outside the store lock in change order.
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

// SessionChanged reacts to a token transition: the set is cleared, running
// requests are orphaned, and a new token starts a background fetch under
// ctx. It has the shape of session.Listener.
func (s *Store) SessionChanged(ctx context.Context) func(prev, next string) {
	return func(prev, next string) {
		s.Clear()
		if next == "" {
			return
		}
		fetchCtx, cancel := context.WithCancel(ctx)
		s.mu.Lock()
		s.fetchCancel = cancel
		epoch := s.epoch
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer cancel()
			_, _ = s.fetch(fetchCtx, epoch, true)
		}()
	}
}

// Wait blocks until background fetches started by SessionChanged return.
func (s *Store) Wait() {
	s.wg.Wait()
}

// FetchSaved replaces the set with the server's list. On failure the set is
// cleared and the error returned. Without a session the set is cleared.
func (s *Store) FetchSaved(ctx context.Context) error {
	if s.session.Token() == "" {
		s.Clear()
		return nil
	}
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	_, err := s.fetch(ctx, epoch, true)
	return err
}

// fetch lists the saved items for the session identified by epoch and
// replaces the set with the result. Mutations confirmed while the request
// runs are replayed onto it. A failed request empties the set only when
// clearOnError is set.
func (s *Store) fetch(ctx context.Context, epoch uint64, clearOnError bool) ([]models.Listing, error) {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.fetchGen++
	gen := s.fetchGen
	s.fetching = true
	s.overlay = map[models.ListingID]bool{}
	s.mu.Unlock()

	items, err := s.backend.ListSavedItems(ctx)

	var superseded bool
	s.apply(func() bool {
		if epoch != s.epoch {
			superseded = true
			return false
		}
		if ctx.Err() != nil {
			if gen == s.fetchGen {
				s.fetching = false
			}
			superseded = true
			return false
		}
		// A newer fetch owns the set and the replay overlay.
		if gen != s.fetchGen {
			return false
		}
		s.fetching = false
		if err != nil && !clearOnError {
			s.overlay = map[models.ListingID]bool{}
			return false
		}
		next := map[models.ListingID]struct{}{}
		if err == nil {
			for _, item := range items {
				next[item.ID] = struct{}{}
			}
			for id, present := range s.overlay {
				if present {
					next[id] = struct{}{}
				} else {
					delete(next, id)
				}
			}
		}
		s.overlay = map[models.ListingID]bool{}
		s.ids = next
		return true
	})
	if superseded {
		return nil, ErrSuperseded
	}
	if err != nil {
		var apiErr *api.Error
		switch {
		case errors.Is(err, api.ErrSessionExpired):
			s.errorf("saved: fetch rejected, session expired: %v", err)
		case errors.As(err, &apiErr):
			s.errorf("saved: fetch failed kind=%s status=%d: %v", apiErr.Kind, apiErr.StatusCode, apiErr.Err)
		default:
			s.errorf("saved: fetch failed: %v", err)
		}
		return nil, err
	}
	return items, nil
}

// SavedListings fetches the full saved records and refreshes the id set from
// them. A failure leaves the set untouched.
func (s *Store) SavedListings(ctx context.Context) ([]models.Listing, error) {
	if s.session.Token() == "" {
		return nil, ErrLoginRequired
	}
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	return s.fetch(ctx, epoch, false)
}

// Clear empties the set and orphans every running request.
func (s *Store) Clear() {
	s.apply(func() bool {
		s.epoch++
		s.fetching = false
		if s.fetchCancel != nil {
			s.fetchCancel()
			s.fetchCancel = nil
		}
		changed := len(s.ids) > 0
		s.ids = map[models.ListingID]struct{}{}
		return changed
	})
}

func (s *Store) mutate(ctx context.Context, id models.ListingID, add bool) error {
	if s.session.Token() == "" {
		return ErrLoginRequired
	}

	s.mu.Lock()
	if _, busy := s.inFlight[id]; busy {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.inFlight[id] = struct{}{}
	epoch := s.epoch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}()

	var err error
	if add {
		err = s.backend.AddSavedItem(ctx, id)
	} else {
		err = s.backend.DeleteSavedItem(ctx, id)
	}
	if err != nil {
		s.errorf("saved: mutate %s add=%t: %v", id, add, err)
		return err
	}

	var stale bool
	s.apply(func() bool {
		if epoch != s.epoch {
			stale = true
			return false
		}
		if s.fetching {
			s.overlay[id] = add
		}
		_, present := s.ids[id]
		if add == present {
			return false
		}
		if add {
			s.ids[id] = struct{}{}
		} else {
			delete(s.ids, id)
		}
		return true
	})
	if stale {
		return ErrSuperseded
	}
	return nil
}

// apply runs fn under the store lock and notifies listeners if it reports a
// change.
func (s *Store) apply(fn func() bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changed := fn()
	var (
		ids       []models.ListingID
		listeners []Listener
	)
	if changed {
		ids = s.snapshotLocked()
		for _, l := range s.listeners {
			if l != nil {
				listeners = append(listeners, l)
			}
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(slices.Clone(ids))
	}
}

func (s *Store) snapshotLocked() []models.ListingID {
	ids := make([]models.ListingID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) errorf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Errorf(format, args...)
	}
}

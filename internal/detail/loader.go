// Package detail loads the full record of the listing the user selected.
package detail

import (
	"context"
	"errors"
	"sync"

	"auctionmap/internal/models"
)

// AlertMessage is shown when a detail request fails.
const AlertMessage = "상세 정보를 불러오는데 실패했습니다."

var ErrSuperseded = errors.New("detail: superseded by a newer selection")

type Backend interface {
	GetItem(ctx context.Context, id models.ListingID) (models.ListingDetail, error)
}

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// State is the detail panel. Detail is nil while the panel is closed.
type State struct {
	SelectedID models.ListingID      `json:"selectedId,omitempty"`
	Detail     *models.ListingDetail `json:"detail"`
	Loading    bool                  `json:"loading"`
	Alert      string                `json:"alert,omitempty"`
}

// Loader keeps at most one selection. It is independent of list loading.
type Loader struct {
	backend Backend
	logger  Logger

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
}

func NewLoader(backend Backend, logger Logger) *Loader {
	return &Loader{backend: backend, logger: logger}
}

// Select clears the panel and loads id. A failure leaves the panel closed
// with AlertMessage set.
func (l *Loader) Select(ctx context.Context, id models.ListingID) (State, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.state = State{SelectedID: id, Loading: true}
	l.mu.Unlock()

	d, err := l.backend.GetItem(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return l.state, ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		if l.logger != nil {
			l.logger.Errorf("detail: get item %s: %v", id, err)
		}
		l.state = State{Alert: AlertMessage}
		return l.state, err
	}
	l.state = State{SelectedID: id, Detail: &d}
	return l.state, nil
}

// Close clears the panel and drops any running selection.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.state = State{}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

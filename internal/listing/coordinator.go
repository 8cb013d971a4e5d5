// Package listing loads the listing page for the committed search state.
package listing

import (
	"context"
	"errors"
	"sync"

	"auctionmap/internal/api"
	"auctionmap/internal/filter"
	"auctionmap/internal/models"
)

const DefaultPageSize = 10

// DefaultCenter is Seoul city hall.
var DefaultCenter = models.GeoPoint{Lat: 37.5665, Lng: 126.978}

var ErrSuperseded = errors.New("listing: superseded by a newer search")

type Backend interface {
	ListItems(ctx context.Context, q api.ItemQuery) (models.ListingPage, error)
}

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// State is what the list and map views render.
type State struct {
	Items    []models.Listing `json:"items"`
	PageInfo *models.PageInfo `json:"pageInfo"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
	Center   models.GeoPoint  `json:"center"`
}

type Listener func(State)

// Coordinator runs one fetch per committed change. Only the newest fetch may
// write its result.
type Coordinator struct {
	base     context.Context
	backend  Backend
	pageSize int
	logger   Logger

	notifyMu  sync.Mutex
	mu        sync.Mutex
	state     State
	gen       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	listeners []Listener
}

// NewCoordinator builds a coordinator whose fetches live under base.
func NewCoordinator(base context.Context, backend Backend, pageSize int, center models.GeoPoint, logger Logger) *Coordinator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if center == (models.GeoPoint{}) {
		center = DefaultCenter
	}
	done := make(chan struct{})
	close(done)
	return &Coordinator{
		base:     base,
		backend:  backend,
		pageSize: pageSize,
		logger:   logger,
		state:    State{Items: []models.Listing{}, Center: center},
		done:     done,
	}
}

// Query maps the committed search onto the items request.
func (c *Coordinator) Query(s filter.Committed) api.ItemQuery {
	return api.ItemQuery{
		Page:      s.Page,
		Size:      c.pageSize,
		Keyword:   s.Keyword,
		Region:    string(s.Region),
		PriceFrom: s.PriceFrom,
		PriceTo:   s.PriceTo,
		DateFrom:  s.DateFrom,
		DateTo:    s.DateTo,
	}
}

// Changed starts a background load for s. The loading state is entered
// before it returns. It has the shape of filter.Listener.
func (c *Coordinator) Changed(s filter.Committed) {
	f := c.begin(c.base)
	go func() { _ = c.run(f, s) }()
}

// Load fetches the page for s, cancelling whatever fetch was running. It
// returns ErrSuperseded when a newer load started before this one answered.
func (c *Coordinator) Load(ctx context.Context, s filter.Committed) error {
	return c.run(c.begin(ctx), s)
}

type fetch struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	gen    uint64
}

func (c *Coordinator) begin(ctx context.Context) fetch {
	ctx, cancel := context.WithCancel(ctx)
	f := fetch{ctx: ctx, cancel: cancel, done: make(chan struct{})}
	c.apply(func() {
		if c.cancel != nil {
			c.cancel()
		}
		c.gen++
		f.gen = c.gen
		c.cancel = cancel
		c.done = f.done
		c.state.Loading = true
		c.state.Error = ""
	})
	return f
}

func (c *Coordinator) run(f fetch, s filter.Committed) error {
	defer close(f.done)
	defer f.cancel()

	page, err := c.backend.ListItems(f.ctx, c.Query(s))

	stale := false
	c.apply(func() {
		if f.gen != c.gen {
			stale = true
			return
		}
		c.cancel = nil
		c.state.Loading = false
		if err != nil {
			c.state.Items = []models.Listing{}
			c.state.PageInfo = nil
			c.state.Error = api.Message(err, api.MsgGeneric)
			return
		}
		items := page.Data
		if items == nil {
			items = []models.Listing{}
		}
		info := page.PageInfo
		c.state.Items = items
		c.state.PageInfo = &info
		if center, ok := firstPlotted(items); ok {
			c.state.Center = center
		}
	})
	if stale {
		return ErrSuperseded
	}
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.errorf("listing: page %d: kind=%s status=%d: %v", s.Page, apiErr.Kind, apiErr.StatusCode, apiErr.Err)
		} else {
			c.errorf("listing: page %d: %v", s.Page, err)
		}
		return err
	}
	return nil
}

// Wait blocks until no load is running or ctx is done.
func (c *Coordinator) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		loading, done := c.state.Loading, c.done
		c.mu.Unlock()
		if !loading {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
	idx := len(c.listeners) - 1
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.listeners[idx] = nil
	}
}

func (c *Coordinator) apply(fn func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	fn()
	st := c.snapshotLocked()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		if l != nil {
			listeners = append(listeners, l)
		}
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(st)
	}
}

func (c *Coordinator) snapshotLocked() State {
	st := c.state
	st.Items = append([]models.Listing(nil), c.state.Items...)
	if c.state.PageInfo != nil {
		info := *c.state.PageInfo
		st.PageInfo = &info
	}
	return st
}

func firstPlotted(items []models.Listing) (models.GeoPoint, bool) {
	for _, item := range items {
		if item.HasCoordinates() {
			return item.Point(), true
		}
	}
	return models.GeoPoint{}, false
}

func (c *Coordinator) errorf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Errorf(format, args...)
	}
}

// Package filter holds the search form state: an editable draft and the
// committed criteria that drive listing fetches.
package filter

import "sync"

// Listener is called with the new committed state after every change.
// Listeners are called in commit order and must not modify the controller.
type Listener func(Committed)

// Controller owns the draft, the committed state and the current page.
type Controller struct {
	notifyMu  sync.Mutex
	mu        sync.Mutex
	draft     Draft
	committed Committed
	listeners []Listener
}

func NewController() *Controller {
	return &Controller{committed: InitialCommitted()}
}

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Draft{Criteria: c.draft.Criteria.clone()}
}

func (c *Controller) Committed() Committed {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed.WithPage(c.committed.Page)
}

// SetDraft replaces the draft. Committed state is untouched and nobody is
// notified.
func (c *Controller) SetDraft(d Draft) {
	c.mu.Lock()
	c.draft = Draft{Criteria: d.Criteria.clone()}
	c.mu.Unlock()
}

// CommitSearch applies the draft and resets to page 1.
func (c *Controller) CommitSearch() Committed {
	return c.update(func(cur Committed) Committed {
		return c.draft.Commit(cur)
	})
}

// SetRegion commits r immediately and resets to page 1.
func (c *Controller) SetRegion(r Region) Committed {
	return c.update(func(cur Committed) Committed {
		return cur.WithRegion(r)
	})
}

// GoToPage moves to page n keeping every other criterion.
func (c *Controller) GoToPage(n int) Committed {
	return c.update(func(cur Committed) Committed {
		return cur.WithPage(n)
	})
}

// Subscribe registers fn for committed changes and returns a function that
// removes it.
func (c *Controller) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
	idx := len(c.listeners) - 1
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < len(c.listeners) {
			c.listeners[idx] = nil
		}
	}
}

func (c *Controller) update(fn func(Committed) Committed) Committed {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	next := fn(c.committed)
	c.committed = next
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		if l != nil {
			listeners = append(listeners, l)
		}
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(next.WithPage(next.Page))
	}
	return next
}

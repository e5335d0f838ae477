// Package control schedules and cancels the table instance's time-based
// events (action clocks, post-action pacing, street-transition pauses) using
// a generation counter so a stale timer firing after the table has already
// moved on is always a safe no-op rather than a race.
package control

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Controller owns every pending timer for one table. All scheduling and
// cancellation goes through the same mutex and a per-id generation, so a
// timer captured before a cancel can never fire against state it no longer
// describes, while timers under other ids are left alone.
type Controller struct {
	mu         sync.Mutex
	clock      quartz.Clock
	generation uint64
	gens       map[string]uint64
	pending    map[string]*quartz.Timer
}

// New returns a Controller driven by clock. Pass quartz.NewReal() in
// production and quartz.NewMock(t) in tests that need to advance time
// deterministically.
func New(clock quartz.Clock) *Controller {
	return &Controller{clock: clock, gens: make(map[string]uint64), pending: make(map[string]*quartz.Timer)}
}

// Schedule arms a one-shot timer under id, replacing any timer already
// scheduled under the same id. fn runs only if no later Schedule or Cancel
// under the same id, and no CancelAll, has invalidated this timer's
// generation by the time it fires.
func (c *Controller) Schedule(id string, d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.pending[id]; ok {
		t.Stop()
		delete(c.pending, id)
	}
	c.generation++
	gen := c.generation
	c.gens[id] = gen

	c.pending[id] = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		valid := c.gens[id] == gen
		if valid {
			delete(c.pending, id)
			delete(c.gens, id)
		}
		c.mu.Unlock()
		if valid {
			fn()
		}
	})
}

// Cancel stops the timer scheduled under id, if any. It is a no-op if id
// has no pending timer or has already fired.
func (c *Controller) Cancel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.pending[id]; ok {
		t.Stop()
		delete(c.pending, id)
	}
	delete(c.gens, id)
}

// CancelAll stops every pending timer and drops every id's generation, so
// even a timer whose Stop() raced a fire cannot invoke its callback.
func (c *Controller) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for id, t := range c.pending {
		t.Stop()
		delete(c.pending, id)
		delete(c.gens, id)
	}
}

// Pending reports whether a timer is currently armed under id.
func (c *Controller) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

// Standard timer ids used across a table instance's lifecycle.
const (
	TimerAction           = "action"
	TimerActionAnimation  = "action-animation"
	TimerStreetTransition = "street-transition"
	TimerDisconnectGrace  = "disconnect-grace"
)

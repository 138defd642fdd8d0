package resolve

import (
	"context"
	"sync"
)

// Host carries the per-object resolution state. Owning objects embed it; the
// zero value is ready to use. Each bound attribute gets its own cell, created
// lazily on first access, so unrelated resolutions never contend on a shared
// lock. A cell holds no reference back to the owning object, so cached values
// never keep the owner alive.
type Host struct {
	cells sync.Map
}

func (h *Host) cell(attribute string) *cell {
	if c, ok := h.cells.Load(attribute); ok {
		return c.(*cell)
	}
	c, _ := h.cells.LoadOrStore(attribute, &cell{})
	return c.(*cell)
}

type cellState int

const (
	stateUnresolved cellState = iota
	stateInFlight
	stateResolved
)

// outcome is the terminal result of one producer invocation, fanned out
// identically to every waiter.
type outcome struct {
	value interface{}
	err   error
}

// cell is the per (object, binding) coordinator. Transitions:
//
//	Unresolved -> InFlight   first reader, becomes the invoker
//	InFlight   -> Resolved   success; value cached for the object's lifetime
//	InFlight   -> Unresolved failure; delivered to all waiters, then retryable
type cell struct {
	mu      sync.Mutex
	state   cellState
	value   interface{}
	waiters []chan outcome
}

// resolve drives the state machine. Exactly one invocation of produce is in
// flight at a time; readers arriving while one is in flight append a waiter
// channel and block. Waiter channels are buffered so fan-out never blocks on
// a reader that abandoned its wait: a waiter whose context is done returns
// ctx.Err() without disturbing the invocation or the other waiters.
func (c *cell) resolve(ctx context.Context, produce func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	switch c.state {
	case stateResolved:
		value := c.value
		c.mu.Unlock()
		return value, nil

	case stateInFlight:
		done := make(chan outcome, 1)
		c.waiters = append(c.waiters, done)
		c.mu.Unlock()
		select {
		case out := <-done:
			return out.value, out.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.state = stateInFlight
	c.mu.Unlock()

	// Invoker path: the producer runs in this reader's goroutine with this
	// reader's context.
	value, err := produce(ctx)

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	if err != nil {
		// Failure is never cached; the next read restarts resolution.
		c.state = stateUnresolved
		c.value = nil
	} else {
		c.state = stateResolved
		c.value = value
	}
	c.mu.Unlock()

	// Release in arrival order, identical outcome for everyone.
	for _, done := range waiters {
		done <- outcome{value: value, err: err}
	}
	return value, err
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listquery

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by Controller.Load when a newer load started
// before this one finished. The result was discarded.
var ErrStale = errors.New("list query superseded by a newer request")

// Fetcher loads one page for a query.
type Fetcher[T any] func(ctx context.Context, q Query) (Page[T], error)

// Controller owns a State and the results of the most recent load. Each
// Load gets a generation number; starting a new Load cancels the previous
// one, and a result that arrives for an old generation is dropped, so the
// displayed page always matches the latest state.
type Controller[T any] struct {
	idOf func(T) string

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	page   Page[T]
	err    error
}

// NewController starts from state. idOf identifies rows for selection.
func NewController[T any](state State, idOf func(T) string) *Controller[T] {
	return &Controller[T]{state: state, idOf: idOf}
}

// State returns the current state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update applies a transition and returns the new state. Updates are
// applied in call order.
func (c *Controller[T]) Update(fn func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
	return c.state
}

// Generation returns the number of the most recently started load.
func (c *Controller[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Result returns the last accepted page and error.
func (c *Controller[T]) Result() (Page[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page, c.err
}

// Load fetches the page for the current state. On success the selection
// is narrowed to rows still visible.
func (c *Controller[T]) Load(ctx context.Context, fetch Fetcher[T]) (Page[T], error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	q := c.state.Query()
	c.mu.Unlock()

	page, err := fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		cancel()
		return Page[T]{}, ErrStale
	}
	cancel()
	c.cancel = nil
	c.page, c.err = page, err
	if err == nil && c.idOf != nil {
		visible := make([]string, len(page.Items))
		for i, it := range page.Items {
			visible[i] = c.idOf(it)
		}
		c.state = c.state.RetainVisible(visible)
	}
	return page, err
}

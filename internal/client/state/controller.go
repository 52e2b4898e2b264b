// Package state holds the client-resident list controllers: a time-boxed
// cache over repository reads with a uniform loading/error/data contract
// and an observer registry for presentation code.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smirnovds/townsquare/internal/common"
)

// DefaultTTL is how long a populated collection counts as fresh.
const DefaultTTL = 5 * time.Minute

// Fetcher loads the full collection from a repository.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Snapshot is the controller's externally visible state. Items stay
// populated across transient failures: stale-but-present beats empty.
type Snapshot[T any] struct {
	Items     []T
	FetchedAt time.Time
	Loading   bool
	ErrMsg    string
}

// HasData reports whether any collection has ever been loaded.
func (s Snapshot[T]) HasData() bool { return !s.FetchedAt.IsZero() }

// Controller owns one cached collection. All mutation of the sequence goes
// through Fetch/Refresh/Mutate; nothing outside the controller touches it.
type Controller[T any] struct {
	fetcher Fetcher[T]
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	items     []T
	fetchedAt time.Time
	loading   bool
	errMsg    string

	subs    map[int]func(Snapshot[T])
	nextSub int
}

func NewController[T any](fetcher Fetcher[T]) *Controller[T] {
	return &Controller[T]{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		subs:    make(map[int]func(Snapshot[T])),
	}
}

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers an observer called after every state change. The
// returned function cancels the subscription.
func (c *Controller[T]) Subscribe(fn func(Snapshot[T])) (cancel func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Fetch serves the cached collection when it is fresh and non-empty;
// otherwise it loads from the repository and atomically replaces the whole
// sequence. A failed load keeps the last-known items and records the error.
// ErrSessionExpired propagates untouched.
func (c *Controller[T]) Fetch(ctx context.Context, force bool) error {
	c.mu.Lock()
	if !force && c.freshLocked() {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.errMsg = ""
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()

	items, err := c.fetcher(ctx)

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.items = items
		c.fetchedAt = c.now()
		c.errMsg = ""
	} else if !errors.Is(err, common.ErrSessionExpired) {
		c.errMsg = err.Error()
	}
	notify = c.notifyLocked()
	c.mu.Unlock()
	notify()

	return err
}

// Refresh invalidates first, then fetches.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.Invalidate()
	return c.Fetch(ctx, true)
}

// Invalidate clears the freshness clock; last-known items remain visible
// until the next successful fetch replaces them.
func (c *Controller[T]) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	notify := c.notifyLocked()
	c.mu.Unlock()
	notify()
}

// Mutate runs a repository write and, on success, refreshes the collection
// from the server rather than patching it locally: server-assigned fields
// and policy-filtered visibility always win over an optimistic guess.
func (c *Controller[T]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// --- internal ---

func (c *Controller[T]) freshLocked() bool {
	return !c.fetchedAt.IsZero() &&
		c.now().Sub(c.fetchedAt) < c.ttl &&
		len(c.items) > 0
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Items:     items,
		FetchedAt: c.fetchedAt,
		Loading:   c.loading,
		ErrMsg:    c.errMsg,
	}
}

// notifyLocked captures the snapshot and subscriber list under the lock and
// returns the delivery step. Callers run it after unlocking, so observers
// may re-enter Snapshot or Fetch without deadlocking on the mutex.
func (c *Controller[T]) notifyLocked() func() {
	snap := c.snapshotLocked()
	fns := make([]func(Snapshot[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

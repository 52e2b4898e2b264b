package session

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/logging"
)

// ExpiredNotice is the single user-facing message shown when a session dies
// mid-operation.
const ExpiredNotice = "Your session has expired. Please sign in again."

// Notifier receives the one explanatory notice and moves presentation to
// the unauthenticated entry point.
type Notifier func(message string)

// Guard is the cross-cutting session-expiry interceptor. Every mutating
// call path runs through it so that "operation failed" and "session died
// mid-operation" are handled differently, and the latter exactly once.
type Guard struct {
	manager  *Manager
	logger   logging.Logger
	notify   Notifier
	handling atomic.Bool
}

func NewGuard(manager *Manager, logger logging.Logger, notify Notifier) *Guard {
	return &Guard{manager: manager, logger: logger.With("component", "guard"), notify: notify}
}

// RunGuarded executes op. When op signals ErrSessionExpired the guard
// clears local identity state, purges persisted tokens, and surfaces one
// notice; concurrent expiries are folded into a single handling pass.
// It reports whether the session expired; op's error is returned as-is.
func (g *Guard) RunGuarded(ctx context.Context, op func(ctx context.Context) error) (expired bool, err error) {
	err = op(ctx)
	if err == nil || !errors.Is(err, common.ErrSessionExpired) {
		return false, err
	}

	if g.handling.CompareAndSwap(false, true) {
		defer g.handling.Store(false)

		g.logger.Warn(ctx, "session expired, forcing re-authentication")
		g.manager.Forget(ctx)
		if g.notify != nil {
			g.notify(ExpiredNotice)
		}
	}

	return true, err
}

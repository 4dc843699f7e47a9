package httpclient

import (
	"context"
	"sync"
)

// refreshOutcome is the result of one shared refresh attempt, delivered
// to the triggering request and to every request queued while it ran.
type refreshOutcome struct {
	token    string
	err      error
	terminal bool  // no refresh token existed; callers keep their original 401
	ctxErr   error // the waiter's own context expired, per waiter only
}

// refreshCoordinator serializes 401 recovery. States:
//
//	Idle       — no refresh underway; the next 401 starts one.
//	Refreshing — a refresh is in flight; further 401s queue as waiters.
//	Draining   — the outcome is being published to the queued waiters.
//
// The transition back to Idle happens only after every waiter has its
// outcome, so a request observing Idle can never miss a refresh that its
// own 401 belongs to.
type refreshCoordinator struct {
	lock       sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome
}

// resolve returns the outcome this request's 401 recovery should use.
// Exactly one caller runs doRefresh; everyone else who arrives while it
// runs suspends until the shared outcome is published.
func (c *refreshCoordinator) resolve(ctx context.Context, doRefresh func(context.Context) refreshOutcome) refreshOutcome {
	c.lock.Lock()
	if c.refreshing {
		// Queue behind the in-flight refresh. Buffered so publication
		// never blocks on a waiter that gave up.
		waiter := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, waiter)
		c.lock.Unlock()

		select {
		case outcome := <-waiter:
			return outcome
		case <-ctx.Done():
			return refreshOutcome{ctxErr: ctx.Err()}
		}
	}

	// The flag goes up before the network call starts and comes down only
	// after the outcome reaches every waiter. A second request can never
	// observe Idle mid-refresh.
	c.refreshing = true
	c.lock.Unlock()

	outcome := doRefresh(ctx)

	c.lock.Lock()
	for _, waiter := range c.waiters {
		waiter <- outcome
	}
	c.waiters = nil
	c.refreshing = false
	c.lock.Unlock()

	return outcome
}

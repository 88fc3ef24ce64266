// Package optimistic runs the apply-then-await-then-reconcile protocol
// every mutating user action follows: the local delta lands
// synchronously, the remote call settles in the background, and
// exactly one of reconcile or rollback runs when it does.
package optimistic

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/notify"
)

// Mutation is one in-flight local-then-remote state change.
type Mutation struct {
	// Name identifies the mutation in logs.
	Name string

	// Apply performs the optimistic local delta. It runs synchronously
	// before Call is issued; the UI never waits on the network.
	Apply func()

	// Call performs the remote operation. Required.
	Call func(ctx context.Context) error

	// Reconcile aligns local state with the server after Call
	// succeeds, either by merging the response or by triggering a
	// resync of the affected resource.
	Reconcile func(ctx context.Context)

	// Rollback restores the prior known-good state after Call fails.
	// For counters this is typically a resync, since the exact prior
	// value may not be locally known.
	Rollback func(ctx context.Context)

	// Applied is shown synchronously right after Apply, for actions
	// that confirm optimistically ("Added to cart").
	Applied string

	// Success is shown after Reconcile, for actions that confirm only
	// once the server has ("Item removed").
	Success string

	// Failure is shown when Call fails, except on 401 where the
	// remote client's global redirect already told the user.
	Failure string
}

type Coordinator struct {
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewCoordinator(notifier notify.Notifier, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		notifier: notifier,
		log:      log.With().Str("component", "mutation").Logger(),
	}
}

// Run executes the mutation: Apply now, Call in the background, then
// exactly one of Reconcile or Rollback. The returned channel settles
// with Call's error once the terminal action has run. One network call
// per invocation, no retries; a failed action needs a new user action.
//
// Overlapping Runs against the same resource are not ordered: the last
// server response to arrive wins the final reconciliation. Accepted
// for this domain.
func (c *Coordinator) Run(ctx context.Context, m Mutation) <-chan error {
	if m.Apply != nil {
		m.Apply()
	}
	if m.Applied != "" {
		c.notifier.Success(m.Applied)
	}

	done := make(chan error, 1)
	go func() {
		err := m.Call(ctx)
		if err == nil {
			if m.Reconcile != nil {
				m.Reconcile(ctx)
			}
			if m.Success != "" {
				c.notifier.Success(m.Success)
			}
			done <- nil
			return
		}

		c.log.Debug().Err(err).Str("mutation", m.Name).Msg("remote call failed, rolling back")
		if m.Rollback != nil {
			m.Rollback(ctx)
		}
		// A 401 already cleared the session and redirected; a second
		// local message would be double messaging.
		if m.Failure != "" && !api.IsUnauthorized(err) {
			c.notifier.Error(m.Failure)
		}
		done <- err
	}()
	return done
}

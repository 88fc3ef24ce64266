// Package cart maintains the cross-view cart item counter as
// eventually-consistent derived state. The server cart is the source
// of truth; the counter may transiently overstate it between an
// optimistic increment and the next resync, and self-corrects there.
package cart

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/notify"
)

// Fetcher reads the authoritative cart.
type Fetcher interface {
	Cart(ctx context.Context) (*domain.Cart, error)
}

// TokenSource reports whether a credential exists. Cart endpoints
// require authentication; resyncing without one is pointless noise.
type TokenSource interface {
	Token() string
}

type Syncer struct {
	fetch    Fetcher
	tokens   TokenSource
	notifier notify.Notifier
	log      zerolog.Logger
	sfg      singleflight.Group // collapses concurrent resyncs

	mu       sync.RWMutex
	count    int
	degraded bool
	subs     []func(count int)
}

func NewSyncer(fetch Fetcher, tokens TokenSource, notifier notify.Notifier, log zerolog.Logger) *Syncer {
	return &Syncer{
		fetch:    fetch,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With().Str("component", "cart-syncer").Logger(),
	}
}

// Resync replaces the counter with the authoritative server value.
// With no credential it sets the count to 0 without touching the
// network. A fetch failure zeroes the count; an unreachable backend
// additionally raises the degraded-mode banner.
func (s *Syncer) Resync(ctx context.Context) error {
	if s.tokens.Token() == "" {
		s.setCount(0)
		return nil
	}

	_, err, _ := s.sfg.Do("resync", func() (interface{}, error) {
		cart, errFetch := s.fetch.Cart(ctx)
		if errFetch != nil {
			s.setCount(0)
			if api.IsUnavailable(errFetch) {
				s.setDegraded(true)
			}
			return nil, errFetch
		}
		s.setDegraded(false)
		s.setCount(cart.TotalQuantity())
		return nil, nil
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("cart resync failed")
	}
	return err
}

// IncrementLocal bumps the counter synchronously, before the add-item
// request is even issued, so the header badge never waits on network
// latency. Drift is corrected by the next Resync.
func (s *Syncer) IncrementLocal() {
	s.mu.Lock()
	s.count++
	count := s.count
	subs := append(([]func(int))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(count)
	}
}

// Reset zeroes the counter without a network call. Used on logout.
func (s *Syncer) Reset() {
	s.setCount(0)
}

func (s *Syncer) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// DegradedMode reports whether the last resync found the backend
// unreachable. Cleared by the first successful resync afterwards.
func (s *Syncer) DegradedMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Subscribe registers fn for counter changes, e.g. the header badge.
func (s *Syncer) Subscribe(fn func(count int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Syncer) setCount(count int) {
	s.mu.Lock()
	changed := s.count != count
	s.count = count
	subs := append(([]func(int))(nil), s.subs...)
	s.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(count)
		}
	}
}

func (s *Syncer) setDegraded(active bool) {
	s.mu.Lock()
	changed := s.degraded != active
	s.degraded = active
	s.mu.Unlock()

	if changed {
		s.notifier.Degraded(active)
	}
}

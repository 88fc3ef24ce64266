// Package session is the single source of truth for "is there a usable
// credential right now". Every view gates on it; nothing else touches
// the persisted credential directly.
package session

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/nav"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

type Event int

const (
	EventLogin Event = iota
	EventLogout
)

// Store holds the current credential and minimal user identity.
// Consumers can distinguish "not yet determined" (Ready() false) from
// "determined and logged out" to avoid redirect races during startup.
type Store struct {
	storage Storage
	nav     nav.Navigator
	log     zerolog.Logger

	mu       sync.Mutex
	ready    bool
	loggedIn bool
	token    string
	user     *domain.User
	subs     []func(Event)
}

func NewStore(storage Storage, navigator nav.Navigator, log zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		nav:     navigator,
		log:     log.With().Str("component", "session").Logger(),
	}
}

// isAbsent reports whether a persisted value should be treated as "no
// value". The literal strings "undefined" and "null" are sentinels a
// buggy writer may have persisted and must never be used as data.
func isAbsent(value string) bool {
	return value == "" || value == "undefined" || value == "null"
}

// Initialize rehydrates the session from persisted storage. A missing
// or sentinel credential yields logged-out and proactively clears any
// stale identity; a corrupt identity with a valid credential keeps the
// credential and discards only the identity.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, _ := s.storage.Get(tokenKey)
	if isAbsent(token) {
		// Never allow an orphaned identity without a credential.
		_ = s.storage.Remove(tokenKey)
		_ = s.storage.Remove(userKey)
		s.loggedIn = false
		s.token = ""
		s.user = nil
		s.ready = true
		return
	}

	s.loggedIn = true
	s.token = token
	s.user = nil

	if raw, ok := s.storage.Get(userKey); ok && !isAbsent(raw) {
		var user domain.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			s.log.Warn().Err(err).Msg("discarding corrupt persisted identity")
			_ = s.storage.Remove(userKey)
		} else {
			s.user = &user
		}
	}
	s.ready = true
}

// Login stores the credential obtained by the caller. No network call
// is made here; the remote client already produced the token.
func (s *Store) Login(token string, user *domain.User) {
	s.mu.Lock()
	s.token = token
	s.loggedIn = true
	s.ready = true
	if err := s.storage.Set(tokenKey, token); err != nil {
		s.log.Error().Err(err).Msg("persist credential failed")
	}
	if user != nil {
		s.user = user
		if raw, err := json.Marshal(user); err == nil {
			if errSet := s.storage.Set(userKey, string(raw)); errSet != nil {
				s.log.Error().Err(errSet).Msg("persist identity failed")
			}
		}
	}
	subs := append(([]func(Event))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(EventLogin)
	}
}

// SetIdentity attaches or refreshes the user identity for the current
// session. Ignored when logged out: identity without a credential is
// invalid and must never be stored.
func (s *Store) SetIdentity(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn || user == nil {
		return
	}
	s.user = user
	if raw, err := json.Marshal(user); err == nil {
		if errSet := s.storage.Set(userKey, string(raw)); errSet != nil {
			s.log.Error().Err(errSet).Msg("persist identity failed")
		}
	}
}

// Logout clears the credential and identity and navigates to the login
// view. Calling it when already logged out is a no-op aside from the
// navigation.
func (s *Store) Logout() {
	s.clear(true)
	s.nav.To(nav.RouteLogin)
}

// Invalidate is the storage-clearing effect of Logout driven by a
// rejected credential. The redirect is skipped when the client is
// already on the login view so repeated rejections cannot loop.
func (s *Store) Invalidate() {
	s.clear(true)
	if s.nav.Current() != nav.RouteLogin {
		s.nav.To(nav.RouteLogin)
	}
}

func (s *Store) clear(notify bool) {
	s.mu.Lock()
	wasLoggedIn := s.loggedIn
	s.loggedIn = false
	s.token = ""
	s.user = nil
	s.ready = true
	_ = s.storage.Remove(tokenKey)
	_ = s.storage.Remove(userKey)
	subs := append(([]func(Event))(nil), s.subs...)
	s.mu.Unlock()

	if notify && wasLoggedIn {
		for _, fn := range subs {
			fn(EventLogout)
		}
	}
}

// Ready reports whether the initial rehydration has completed.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Token returns the current credential, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the current identity. Identity is only ever non-nil
// while a credential is held.
func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Subscribe registers fn for login/logout transitions. Dependents that
// gate rendering on logged-in state re-render from here.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

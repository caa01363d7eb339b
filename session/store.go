package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStorageUnavailable is returned when the backing key-value store
// cannot be reached. The in-memory state is left untouched in that
// case: a mutation either lands durably or does not land at all.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ErrNotReady is returned by mutations attempted before hydration has
// settled.
var ErrNotReady = errors.New("session store not hydrated")

const defaultHydrateTimeout = 3 * time.Second

// Store is the single source of truth for the current session: who, if
// anyone, is logged in, whether maintenance mode is active, and the
// bounded login-attempt log. The full state is written to one fixed
// key in the backing store on every mutation and read back once during
// hydration.
//
// The store is a single-session container, not a multi-user session
// index: it models the process-wide authentication state of one
// dashboard instance. Mutations are serialized by an internal mutex;
// near-simultaneous writers get last-write-wins semantics.
type Store struct {
	redis redis.UniversalClient
	key   string

	hydrateTimeout time.Duration

	mu            sync.Mutex
	readiness     Readiness
	user          *User
	authenticated bool
	maintenance   bool
	attempts      []LoginAttempt
}

// NewStore creates a session [Store] persisting under the given key.
// A zero hydrateTimeout selects the default bound: hydration never
// blocks authorization indefinitely on a stuck backing store.
func NewStore(client redis.UniversalClient, key string, hydrateTimeout time.Duration) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	if hydrateTimeout <= 0 {
		hydrateTimeout = defaultHydrateTimeout
	}
	return &Store{
		redis:          client,
		key:            key,
		hydrateTimeout: hydrateTimeout,
	}
}

// Hydrate restores persisted state from the backing store and marks
// the store Ready. It is idempotent: once Ready, further calls return
// immediately without touching an established session. A missing
// persisted value, a corrupt blob, a storage error, or a timeout all
// settle the store at the Ready-Unauthenticated baseline: hydration
// fails closed, never open, and never leaves readiness stuck at
// Pending.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readiness == ReadinessReady {
		return nil
	}
	s.readiness = ReadinessPending

	loadCtx, cancel := context.WithTimeout(ctx, s.hydrateTimeout)
	defer cancel()

	data, err := s.redis.Get(loadCtx, s.key).Bytes()
	if err != nil {
		s.applyBaseline()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	st, err := Decode(data)
	if err != nil {
		s.applyBaseline()
		return fmt.Errorf("discarding corrupt persisted session: %w", err)
	}

	s.user = st.User
	s.authenticated = st.Authenticated
	s.maintenance = st.Maintenance
	s.attempts = st.Attempts
	s.readiness = ReadinessReady
	return nil
}

func (s *Store) applyBaseline() {
	s.user = nil
	s.authenticated = false
	s.maintenance = false
	s.attempts = nil
	s.readiness = ReadinessReady
}

// RecordLogin transitions the store to Ready-Authenticated holding the
// given user. The user's permission slice is copied in: the store owns
// its state exclusively and no caller retains a mutable reference.
func (s *Store) RecordLogin(ctx context.Context, u User) error {
	return s.mutate(ctx, func() {
		s.user = u.clone()
		s.authenticated = true
	})
}

// Clear logs out: the user reference is dropped and the store returns
// to Ready-Unauthenticated. The maintenance flag and attempt log are
// untouched.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.user = nil
		s.authenticated = false
	})
}

// SetMaintenanceMode flips the maintenance flag. It is independent of
// session state: enabling it does not evict an established session, it
// only blocks new logins.
func (s *Store) SetMaintenanceMode(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func() {
		s.maintenance = enabled
	})
}

// AppendAttempt prepends a login attempt to the bounded log, evicting
// the oldest entry beyond [MaxLoginAttempts].
func (s *Store) AppendAttempt(ctx context.Context, attempt LoginAttempt) error {
	return s.mutate(ctx, func() {
		log := make([]LoginAttempt, 0, len(s.attempts)+1)
		log = append(log, attempt)
		log = append(log, s.attempts...)
		if len(log) > MaxLoginAttempts {
			log = log[:MaxLoginAttempts]
		}
		s.attempts = log
	})
}

// ResetAll returns the store to its baseline: no user, no maintenance
// mode, empty attempt log, Ready. Administrative recovery only.
func (s *Store) ResetAll(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.user = nil
		s.authenticated = false
		s.maintenance = false
		s.attempts = nil
	})
}

// Snapshot returns a deep copy of the current state. Safe to retain
// and to read from any goroutine.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return State{
		User:          s.user.clone(),
		Authenticated: s.authenticated,
		Maintenance:   s.maintenance,
		Attempts:      append([]LoginAttempt(nil), s.attempts...),
		Readiness:     s.readiness,
	}
}

// mutate applies fn under the lock, persists the resulting state, and
// rolls back if the durable write fails. Callers therefore never
// observe a state that was not also persisted.
func (s *Store) mutate(ctx context.Context, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readiness != ReadinessReady {
		return ErrNotReady
	}

	prev := s.snapshotLocked()
	fn()

	data, err := Encode(s.snapshotLocked())
	if err != nil {
		s.restoreLocked(prev)
		return err
	}

	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.restoreLocked(prev)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return nil
}

func (s *Store) restoreLocked(st State) {
	s.user = st.User
	s.authenticated = st.Authenticated
	s.maintenance = st.Maintenance
	s.attempts = st.Attempts
}

package signal

import (
	"sync"
	"time"
)

// Store holds pending signals keyed by id. It owns its synchronization
// discipline: every access goes through the contract methods and the lock
// is never held across I/O. Get returns a copy, so callers can validate
// and submit without blocking other store users, then commit the terminal
// transition with Remove.
type Store struct {
	mu      sync.Mutex
	pending map[string]Signal
}

// NewStore creates an empty signal store.
func NewStore() *Store {
	return &Store{pending: make(map[string]Signal)}
}

// Put stores a pending signal and returns its id.
func (s *Store) Put(sig Signal) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sig.ID] = sig
	return sig.ID
}

// Get returns a copy of the pending signal, or false when the id is
// unknown, already resolved, or expired.
func (s *Store) Get(id string) (Signal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig, ok := s.pending[id]
	return sig, ok
}

// Remove deletes the pending signal and reports whether it was present.
// A false return means another resolution already won; the caller must
// treat its own action as a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[id]; !ok {
		return false
	}
	delete(s.pending, id)
	return true
}

// Sweep removes every signal whose TTL elapsed before now and returns the
// expired signals. A subsequent Get or Remove for those ids reports not
// found, so a late approve resolves as expired rather than executing.
func (s *Store) Sweep(now time.Time) []Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []Signal
	for id, sig := range s.pending {
		if sig.Expired(now) {
			expired = append(expired, sig)
			delete(s.pending, id)
		}
	}
	return expired
}

// Len returns the number of pending signals.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

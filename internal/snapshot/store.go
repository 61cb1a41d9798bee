package snapshot

import (
	"sync"
	"sync/atomic"

	"github.com/memtray/memtray/internal/models"
)

// Store holds the current published snapshot. Writers replace it atomically;
// readers never observe a partially-updated value. Update callbacks are
// registered once during wiring, before publishing starts.
type Store struct {
	current atomic.Pointer[models.Snapshot]

	mu   sync.Mutex
	subs []func(models.Snapshot)
}

// NewStore creates an empty Store.
func NewStore() *Store { return &Store{} }

// OnUpdate registers a callback invoked with each newly published snapshot.
// Consumers must treat the snapshot as read-only.
func (s *Store) OnUpdate(fn func(models.Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Current returns the latest published snapshot; ok is false before the
// first publish.
func (s *Store) Current() (models.Snapshot, bool) {
	p := s.current.Load()
	if p == nil {
		return models.Snapshot{}, false
	}
	return *p, true
}

// Publish atomically replaces the current snapshot and notifies subscribers.
// Called from the single sampling goroutine only.
func (s *Store) Publish(snap models.Snapshot) {
	s.current.Store(&snap)

	s.mu.Lock()
	subs := s.subs
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

package snapshot

import (
	"context"
	"sync"
)

// MemoryStore keeps the baseline in memory. It backs tests and dry
// runs where committing to disk is unwanted.
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a memory store seeded with an optional
// baseline.
func NewMemoryStore(seed Snapshot) *MemoryStore {
	return &MemoryStore{snap: seed.Clone()}
}

// Load returns a copy of the stored baseline, empty when none was
// seeded or committed.
func (s *MemoryStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return Snapshot{}, nil
	}
	return s.snap.Clone(), nil
}

// Commit replaces the stored baseline with a copy of snap.
func (s *MemoryStore) Commit(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}

package sequencer

import (
	"context"
	"sync"

	"stall-system/internal/domain"
)

// MemorySequencer is an in-process counter with the same contract as the
// store-side function. Used by tests and by anything running against the
// in-memory order log.
type MemorySequencer struct {
	mu sync.Mutex
	n  map[domain.ItemType]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{n: make(map[domain.ItemType]int64)}
}

func (s *MemorySequencer) Reserve(_ context.Context, item domain.ItemType) (int64, error) {
	if !item.Valid() {
		return 0, domain.ErrUnknownItem
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n[item]++
	return s.n[item], nil
}

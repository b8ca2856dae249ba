package pending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
)

var _ port.PendingTransactionStore = (*MemoryStore)(nil)

// MemoryStore keeps suspended checkouts in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]model.PendingChallenge
	now     func() time.Time
	ttl     time.Duration
}

// NewMemoryStore creates a MemoryStore. A zero ttl keeps entries until taken.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]model.PendingChallenge),
		now:     time.Now,
		ttl:     ttl,
	}
}

// Put stores the checkout under a fresh UUID.
func (s *MemoryStore) Put(_ context.Context, txn model.Transaction, assessment model.RiskAssessment) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = model.NewPendingChallenge(id, txn, assessment, s.now().UTC())
	return id, nil
}

// Take returns and removes the entry under one lock. Expired entries are
// removed and reported as absent.
func (s *MemoryStore) Take(_ context.Context, id string) (model.PendingChallenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return model.PendingChallenge{}, false, nil
	}
	delete(s.entries, id)

	if s.expired(entry) {
		return model.PendingChallenge{}, false, nil
	}
	return entry, true, nil
}

// Len returns the number of held entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *MemoryStore) expired(entry model.PendingChallenge) bool {
	return s.ttl > 0 && s.now().Sub(entry.CreatedAt()) > s.ttl
}

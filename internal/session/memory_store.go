package session

import (
	"context"
	"sync"
	"time"

	"url-shortener-web/internal/domain"
)

type memoryEntry struct {
	state     State
	expiresAt time.Time
}

// memoryStore keeps sessions in process; used when Redis is disabled or unreachable
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-process session store
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *memoryStore) Load(ctx context.Context, id string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return State{}, domain.ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return State{}, domain.ErrSessionNotFound
	}

	return entry.state, nil
}

func (s *memoryStore) Save(ctx context.Context, id string, state State, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[id] = memoryEntry{state: state, expiresAt: now.Add(ttl)}

	// Opportunistic sweep keeps the map bounded by live sessions
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}

	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

package otp

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is a process-local Store for single-instance deployments and
// tests. Codes do not survive a restart.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]memoryEntry
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.codes {
		if !now.Before(e.expiresAt) {
			delete(s.codes, k)
		}
	}
	s.codes[phone] = memoryEntry{code: code, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[phone]
	if !ok {
		return false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.codes, phone)
		return false, nil
	}
	if e.code != code {
		return false, nil
	}
	delete(s.codes, phone)
	return true, nil
}

package session

import (
	"context"
	"sync"
	"time"

	"giftible/internal/domain"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on
// restart; it suits local development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]domain.Session
	ttl  time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{data: make(map[string]domain.Session), ttl: ttl}
}

func (m *MemoryStore) Get(_ context.Context, sid string) (*domain.Session, error) {
	m.mu.RLock()
	s, ok := m.data[sid]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && time.Since(s.LastSeen) > m.ttl {
		m.mu.Lock()
		delete(m.data, sid)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sid)
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[sid]
	if !ok {
		return ErrNotFound
	}
	s.LastSeen = time.Now().UTC()
	m.data[sid] = s
	return nil
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

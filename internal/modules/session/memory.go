package session

import (
	"context"
	"fmt"
	"sync"

	perrors "github.com/yungbote/mongoarchitect-backend/internal/pkg/errors"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[normalizeKey(key)]
	if !ok {
		return nil, perrors.ErrNotFound
	}
	return s.clone(), nil
}

func (m *MemoryStore) Create(_ context.Context, key string) (*Session, error) {
	s := New(normalizeKey(key))
	m.mu.Lock()
	m.sessions[s.Key] = s.clone()
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("session required")
	}
	s.Key = normalizeKey(s.Key)
	m.mu.Lock()
	m.sessions[s.Key] = s.clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.sessions, normalizeKey(key))
	m.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

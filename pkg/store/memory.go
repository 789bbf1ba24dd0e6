package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is a Store that keeps everything in memory
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*Session),
	}
}

// Load returns the session or ErrNotFound
func (m *Memory) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return clone(s, true), nil
}

// Save creates or replaces the session
func (m *Memory) Save(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := clone(session, true)
	if existing, ok := m.sessions[session.ID]; ok {
		s.CreatedAt = existing.CreatedAt
	}

	m.sessions[session.ID] = s
	return nil
}

// Delete removes the session
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}

	delete(m.sessions, id)
	return nil
}

// List returns every session without its data
func (m *Memory) List(ctx context.Context) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, clone(s, false))
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].UpdatedAt.Equal(sessions[j].UpdatedAt) {
			return sessions[i].ID < sessions[j].ID
		}

		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// DeleteExpired removes sessions last updated before the cutoff
func (m *Memory) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}

	return n, nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

func clone(s *Session, withData bool) *Session {
	c := *s
	c.Data = nil
	if withData {
		c.Data = append([]byte(nil), s.Data...)
	}

	return &c
}

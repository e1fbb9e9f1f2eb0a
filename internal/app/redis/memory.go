package redis

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// Memory хранит сессии и чёрный список в памяти процесса.
// Используется, когда Redis не настроен: данные теряются при перезапуске.
type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	tokens   map[string]time.Time
	sessions map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{
		now:      time.Now,
		tokens:   make(map[string]time.Time),
		sessions: make(map[string]memoryEntry),
	}
}

func (m *Memory) WriteJWTToBlacklist(_ context.Context, jwtStr string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[jwtStr] = m.now().Add(ttl)
	m.gcLocked()
	return nil
}

func (m *Memory) CheckJWTInBlacklist(_ context.Context, jwtStr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.tokens[jwtStr]
	if !ok || !m.now().Before(exp) {
		return ErrNotFound
	}
	return nil
}

func (m *Memory) WriteSession(_ context.Context, sid string, userID uint, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = memoryEntry{userID: userID, expiresAt: m.now().Add(ttl)}
	m.gcLocked()
	return nil
}

func (m *Memory) ReadSession(_ context.Context, sid string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sid]
	if !ok || !m.now().Before(e.expiresAt) {
		return 0, ErrNotFound
	}
	return e.userID, nil
}

func (m *Memory) DeleteSession(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// gcLocked выбрасывает истёкшие записи; вызывать под m.mu
func (m *Memory) gcLocked() {
	now := m.now()
	for k, exp := range m.tokens {
		if !now.Before(exp) {
			delete(m.tokens, k)
		}
	}
	for k, e := range m.sessions {
		if !now.Before(e.expiresAt) {
			delete(m.sessions, k)
		}
	}
}

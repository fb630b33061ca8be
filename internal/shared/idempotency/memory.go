package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]time.Time
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	entry   Entry
	expires time.Time
}

// NewMemory keeps entries in process. Used when Redis is not configured.
func NewMemory(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryStore{
		entries: map[string]memoryEntry{},
		locks:   map[string]time.Time{},
		ttl:     ttl,
		lockTTL: DefaultLockTTL,
		now:     time.Now,
	}
}

func (m *memoryStore) Load(_ context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || m.now().After(e.expires) {
		delete(m.entries, key)
		return Entry{}, false, nil
	}
	return e.entry, true, nil
}

func (m *memoryStore) Save(_ context.Context, key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{entry: e, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *memoryStore) Lock(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if exp, ok := m.locks[key]; ok && m.now().Before(exp) {
		return false, nil
	}
	m.locks[key] = m.now().Add(m.lockTTL)
	return true, nil
}

func (m *memoryStore) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

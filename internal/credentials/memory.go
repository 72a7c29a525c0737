package credentials

import (
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store with scope expiry.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Scope]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[Scope]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the unexpired credential for scope.
func (m *MemoryStore) Get(scope Scope) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[scope]
	if !ok || !m.now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Set stores value for scope, replacing any previous value.
func (m *MemoryStore) Set(scope Scope, value string) error {
	if err := scope.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[scope] = memoryEntry{value: value, expiresAt: m.now().Add(scope.TTL())}
	return nil
}

// Clear forgets the credential for scope.
func (m *MemoryStore) Clear(scope Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, scope)
	return nil
}

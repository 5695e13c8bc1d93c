package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store. It's the default store
// and suitable for single-server deployments; for multi-server
// deployments use RedisStore.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]*storedDoc
	closed bool
	done   chan struct{}
}

type storedDoc struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStoreOption configures MemoryStore behavior.
type MemoryStoreOption func(*memoryStoreConfig)

type memoryStoreConfig struct {
	cleanupInterval time.Duration
}

// WithCleanupInterval sets how often expired snapshots are cleaned up.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(c *memoryStoreConfig) {
		c.cleanupInterval = d
	}
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	cfg := &memoryStoreConfig{
		cleanupInterval: 1 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &MemoryStore{
		docs: make(map[string]*storedDoc),
		done: make(chan struct{}),
	}

	go s.cleanupLoop(cfg.cleanupInterval)
	return s
}

// Save stores a snapshot with an expiration time.
func (m *MemoryStore) Save(ctx context.Context, id string, doc []byte, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy so caller mutations can't corrupt the stored snapshot
	docCopy := make([]byte, len(doc))
	copy(docCopy, doc)

	m.docs[id] = &storedDoc{
		data:      docCopy,
		expiresAt: expiresAt,
	}
	return nil
}

// Load retrieves a snapshot if it exists and hasn't expired.
func (m *MemoryStore) Load(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	d, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	if time.Now().After(d.expiresAt) {
		return nil, nil
	}

	docCopy := make([]byte, len(d.data))
	copy(docCopy, d.data)
	return docCopy, nil
}

// Delete removes a snapshot from the store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.docs, id)
	return nil
}

// Close shuts down the store and releases resources.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)
	m.docs = nil
	return nil
}

// Count returns the number of snapshots in the store. For
// monitoring/testing.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// cleanupLoop periodically removes expired snapshots.
func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	now := time.Now()
	for id, d := range m.docs {
		if now.After(d.expiresAt) {
			delete(m.docs, id)
		}
	}
}

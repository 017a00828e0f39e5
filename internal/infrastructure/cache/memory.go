package cache

import (
	"context"
	"sync"
	"time"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

// MemoryProcessStore is an in-memory ProcessStore with the same atomic
// semantics as the Redis backend. Suitable for tests and single-instance
// development only: it cannot coordinate across processes.
type MemoryProcessStore struct {
	mu      sync.Mutex
	locks   map[string]time.Time
	records map[string]*memoryRecord
}

type memoryRecord struct {
	record     entities.ProcessRecord
	expireTime time.Time
}

// NewMemoryProcessStore creates a new in-memory process store
func NewMemoryProcessStore() *MemoryProcessStore {
	store := &MemoryProcessStore{
		locks:   make(map[string]time.Time),
		records: make(map[string]*memoryRecord),
	}

	// Periodically drop expired entries
	go store.cleanupExpired()

	return store
}

// TryAcquire acquires the per-bot lock if absent or expired. The check and
// the write happen under one mutex hold, so two concurrent callers can never
// both succeed.
func (ms *MemoryProcessStore) TryAcquire(_ context.Context, botID string, ttl time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if expiry, held := ms.locks[botID]; held && time.Now().Before(expiry) {
		return false, nil
	}
	ms.locks[botID] = time.Now().Add(ttl)
	return true, nil
}

// Release frees the per-bot lock
func (ms *MemoryProcessStore) Release(_ context.Context, botID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.locks, botID)
	return nil
}

// GetRecord retrieves the process record for a bot, nil if absent or expired
func (ms *MemoryProcessStore) GetRecord(_ context.Context, botID string) (*entities.ProcessRecord, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.records[botID]
	if !exists || time.Now().After(item.expireTime) {
		return nil, nil
	}

	record := item.record
	return &record, nil
}

// PutRecord stores the process record with a TTL
func (ms *MemoryProcessStore) PutRecord(_ context.Context, record *entities.ProcessRecord, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.records[record.BotID] = &memoryRecord{
		record:     *record,
		expireTime: time.Now().Add(ttl),
	}
	return nil
}

// DeleteRecord removes the process record
func (ms *MemoryProcessStore) DeleteRecord(_ context.Context, botID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.records, botID)
	return nil
}

// cleanupExpired periodically removes expired locks and records
func (ms *MemoryProcessStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, expiry := range ms.locks {
			if now.After(expiry) {
				delete(ms.locks, key)
			}
		}
		for key, item := range ms.records {
			if now.After(item.expireTime) {
				delete(ms.records, key)
			}
		}
		ms.mu.Unlock()
	}
}

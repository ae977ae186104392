package directory

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Record
}

// NewMemoryRepository constructs an in-memory repository for dev mode and
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Record)}
}

func (r *memoryRepository) Insert(_ context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[record.WalletKey]; exists {
		return ErrDuplicateKey
	}
	r.storage[record.WalletKey] = record
	return nil
}

func (r *memoryRepository) FindByKey(_ context.Context, walletKey string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.storage[walletKey]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process [Storage]. State is lost on restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get implements [Storage].
func (storage *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	value, found := storage.values[key]
	return value, found, nil
}

// Set implements [Storage].
func (storage *MemoryStorage) Set(_ context.Context, key, value string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.values[key] = value
	return nil
}

// Delete implements [Storage].
func (storage *MemoryStorage) Delete(_ context.Context, key string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	delete(storage.values, key)
	return nil
}

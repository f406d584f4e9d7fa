// Package blobstore keeps encrypted evidence bodies in an S3-compatible
// object store.
package blobstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// Store holds opaque object bodies by key.
type Store interface {
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Store for tests and local runs.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailPut, when set, is consulted before every Put.
	FailPut func(key string) error
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return err
		}
	}
	m.objects[key] = append([]byte(nil), body...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, common.ErrorNotFound)
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// MemoryStore is an in-memory KeyValueStore. Update works on a copy of the
// data that replaces the original only when fn succeeds.
type MemoryStore struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	data    map[string]map[string][]byte

	// FailPut, when set, is consulted before every Put and its error
	// returned. Tests use it to simulate a failing disk.
	FailPut func(bucket, key string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string][]byte{}}
}

type memOps struct {
	data    map[string]map[string][]byte
	failPut func(bucket, key string) error
}

func (o memOps) Get(_ context.Context, bucket, key string) ([]byte, error) {
	v, ok := o.data[bucket][key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, common.ErrorNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (o memOps) Scan(_ context.Context, bucket, prefix string) ([]KV, error) {
	var out []KV
	for k, v := range o.data[bucket] {
		if strings.HasPrefix(k, prefix) {
			out = append(out, KV{Key: k, Value: append([]byte(nil), v...)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (o memOps) Put(_ context.Context, bucket, key string, value []byte) error {
	if o.failPut != nil {
		if err := o.failPut(bucket, key); err != nil {
			return persistenceErr("put", bucket, key, err)
		}
	}
	b, ok := o.data[bucket]
	if !ok {
		b = map[string][]byte{}
		o.data[bucket] = b
	}
	b[key] = append([]byte(nil), value...)
	return nil
}

func (o memOps) Delete(_ context.Context, bucket, key string) error {
	delete(o.data[bucket], key)
	return nil
}

func (s *MemoryStore) ops(data map[string]map[string][]byte) memOps {
	return memOps{data: data, failPut: s.FailPut}
}

func (s *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops(s.data).Get(ctx, bucket, key)
}

func (s *MemoryStore) Scan(ctx context.Context, bucket, prefix string) ([]KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops(s.data).Scan(ctx, bucket, prefix)
}

func (s *MemoryStore) Put(ctx context.Context, bucket, key string, value []byte) error {
	return s.Update(ctx, func(ctx context.Context, tx Writer) error {
		return tx.Put(ctx, bucket, key, value)
	})
}

func (s *MemoryStore) Delete(ctx context.Context, bucket, key string) error {
	return s.Update(ctx, func(ctx context.Context, tx Writer) error {
		return tx.Delete(ctx, bucket, key)
	})
}

func (s *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, tx Writer) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	draft := clone(s.data)
	s.mu.RUnlock()

	if err := fn(ctx, s.ops(draft)); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = draft
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) View(ctx context.Context, fn func(ctx context.Context, tx Reader) error) error {
	s.mu.RLock()
	snapshot := clone(s.data)
	s.mu.RUnlock()
	return fn(ctx, s.ops(snapshot))
}

func (s *MemoryStore) Clear(context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.data = map[string]map[string][]byte{}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len reports the number of keys in bucket.
func (s *MemoryStore) Len(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[bucket])
}

func clone(src map[string]map[string][]byte) map[string]map[string][]byte {
	out := make(map[string]map[string][]byte, len(src))
	for b, kv := range src {
		m := make(map[string][]byte, len(kv))
		for k, v := range kv {
			m[k] = v
		}
		out[b] = m
	}
	return out
}

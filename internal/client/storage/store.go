// Package storage is the vault's persistence layer: a bucketed key-value
// store with atomic multi-key updates. SQLiteStore is the durable backend and
// MemoryStore the in-memory one used by tests.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

// Buckets of the local vault.
const (
	BucketRegistry  = "evidence_registry"
	BucketTimeline  = "timeline_cache"
	BucketSyncQueue = "sync_queue"
	BucketSyncIndex = "sync_index"
	BucketMeta      = "vault_meta"
	BucketReview    = "manual_review"
)

// KV is one stored pair.
type KV struct {
	Key   string
	Value []byte
}

// Reader reads buckets. Get returns common.ErrorNotFound for a missing key;
// Scan returns pairs whose key starts with prefix in ascending key order.
type Reader interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Scan(ctx context.Context, bucket, prefix string) ([]KV, error)
}

// Writer mutates buckets.
type Writer interface {
	Reader
	Put(ctx context.Context, bucket, key string, value []byte) error
	Delete(ctx context.Context, bucket, key string) error
}

// KeyValueStore is the storage backend of the registry. Update runs fn
// atomically: either every write made through tx lands or none does.
type KeyValueStore interface {
	Writer
	Update(ctx context.Context, fn func(ctx context.Context, tx Writer) error) error
	View(ctx context.Context, fn func(ctx context.Context, tx Reader) error) error
	Clear(ctx context.Context) error
	Close() error
}

func persistenceErr(op, bucket, key string, err error) error {
	return fmt.Errorf("%s %s/%s: %w: %w", op, bucket, key, common.ErrPersistence, err)
}

// GetJSON loads bucket/key into v.
func GetJSON(ctx context.Context, r Reader, bucket, key string, v any) error {
	data, err := r.Get(ctx, bucket, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PutJSON stores v as JSON under bucket/key.
func PutJSON(ctx context.Context, w Writer, bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, key, err)
	}
	return w.Put(ctx, bucket, key, data)
}

// Package review holds bundles the content filter rejected while manual
// override is allowed. The queue is terminal: nothing here is processed
// automatically or fed back into the sync pipeline.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/google/uuid"
)

// Item is one bundle awaiting a human decision.
type Item struct {
	ID         string                `json:"id"`
	TargetDate string                `json:"target_date"`
	Bundle     models.EvidenceBundle `json:"bundle"`
	Filter     models.FilterResult   `json:"filter"`
	QueuedAt   time.Time             `json:"queued_at"`
}

type Store struct {
	kv    storage.KeyValueStore
	clock clock.Clock
}

func NewStore(kv storage.KeyValueStore, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	return &Store{kv: kv, clock: clk}
}

// Enqueue records a rejected bundle for manual review.
func (s *Store) Enqueue(ctx context.Context, bundle models.EvidenceBundle, verdict models.FilterResult, date string) (*Item, error) {
	it := &Item{
		ID:         date + "#" + uuid.NewString(),
		TargetDate: date,
		Bundle:     bundle,
		Filter:     verdict,
		QueuedAt:   s.clock.Now().UTC(),
	}
	if err := storage.PutJSON(ctx, s.kv, storage.BucketReview, it.ID, it); err != nil {
		return nil, err
	}
	return it, nil
}

// List returns queued items, optionally for a single date, oldest date first.
func (s *Store) List(ctx context.Context, date string) ([]Item, error) {
	prefix := ""
	if date != "" {
		prefix = date + "#"
	}
	kvs, err := s.kv.Scan(ctx, storage.BucketReview, prefix)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(kvs))
	for _, kv := range kvs {
		var it Item
		if err := json.Unmarshal(kv.Value, &it); err != nil {
			return nil, fmt.Errorf("decode review item %s: %w", kv.Key, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// Get loads a single item.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	var it Item
	if err := storage.GetJSON(ctx, s.kv, storage.BucketReview, id, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// Dismiss removes an item after a human has dealt with it.
func (s *Store) Dismiss(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.kv.Delete(ctx, storage.BucketReview, id)
}

package registry

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/common"
)

const statsKey = "vault_stats"

func applyStats(ctx context.Context, tx storage.Writer, e *models.EvidenceEntry, now time.Time) error {
	var s models.VaultStatistics
	if err := storage.GetJSON(ctx, tx, storage.BucketMeta, statsKey, &s); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	s.Apply(e, now)
	return storage.PutJSON(ctx, tx, storage.BucketMeta, statsKey, &s)
}

// Statistics returns the cached counters, rebuilding them if absent.
func (r *Registry) Statistics(ctx context.Context) (*models.VaultStatistics, error) {
	var s models.VaultStatistics
	err := storage.GetJSON(ctx, r.store, storage.BucketMeta, statsKey, &s)
	if errors.Is(err, common.ErrorNotFound) {
		return r.RebuildStatistics(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RebuildStatistics recomputes the counters by a full registry scan.
func (r *Registry) RebuildStatistics(ctx context.Context) (*models.VaultStatistics, error) {
	now := r.now()
	s := &models.VaultStatistics{ByContentType: map[models.ContentType]int{}, LastUpdated: now}

	err := r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		kvs, err := tx.Scan(ctx, storage.BucketRegistry, "")
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			var e models.EvidenceEntry
			if err := decodeEntry(kv.Key, kv.Value, &e); err != nil {
				return err
			}
			s.Apply(&e, now)
		}
		return storage.PutJSON(ctx, tx, storage.BucketMeta, statsKey, s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

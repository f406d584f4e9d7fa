// Package registry is the local evidence vault: the durable store of
// evidence entries, their timeline projection, the outbound sync queue and
// the aggregate statistics. All mutation of vault state goes through it.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/client/metagen"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
)

// DefaultCacheSize is the number of entries kept in the read cache.
const DefaultCacheSize = 100

type Options struct {
	CacheSize int
	Clock     clock.Clock
	Logger    logging.Logger
	Metrics   *metrics.Vault
}

type Registry struct {
	store   storage.KeyValueStore
	cache   *lru
	locks   *keyLocks
	subs    *subscribers
	clock   clock.Clock
	logger  logging.Logger
	metrics *metrics.Vault
}

func New(store storage.KeyValueStore, opts Options) *Registry {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	l := opts.Logger.With("module", "registry")
	return &Registry{
		store:   store,
		cache:   newLRU(opts.CacheSize),
		locks:   newKeyLocks(),
		subs:    newSubscribers(l),
		clock:   opts.Clock,
		logger:  l,
		metrics: opts.Metrics,
	}
}

// AddOptions controls how Add builds the entry descriptor. When Descriptor
// is set (the processor packages bundles itself) it is used as is; otherwise
// one is generated from Metadata.
type AddOptions struct {
	Metadata   metagen.Options
	Descriptor *models.Descriptor
}

// Add persists a new entry together with its timeline projection, an upload
// sync task and updated statistics, all in one transaction. A second Add of
// the same content returns common.ErrAlreadyExists and changes nothing.
func (r *Registry) Add(ctx context.Context, bundle models.EvidenceBundle, opts AddOptions) (*models.EvidenceEntry, error) {
	now := r.clock.Now().UTC()

	var d models.Descriptor
	if opts.Descriptor != nil {
		d = *opts.Descriptor
	} else {
		if opts.Metadata.Now.IsZero() {
			opts.Metadata.Now = now
		}
		d = metagen.Generate(bundle, opts.Metadata)
	}
	if d.PackageID == "" {
		return nil, errors.New("descriptor has no package id")
	}

	entry := &models.EvidenceEntry{
		ID:         d.PackageID,
		Content:    bundle,
		Descriptor: d,
		Local: models.LocalInfo{
			AddedAt:    now,
			SyncStatus: d.Upload.Status,
		},
	}

	unlock := r.locks.lock(entry.ID)
	defer unlock()

	err := r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		if _, err := tx.Get(ctx, storage.BucketRegistry, entry.ID); err == nil {
			return fmt.Errorf("evidence %s: %w", entry.ID, common.ErrAlreadyExists)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if err := putEntry(ctx, tx, entry); err != nil {
			return err
		}
		if err := putTimeline(ctx, tx, entry); err != nil {
			return err
		}
		if _, err := enqueue(ctx, tx, entry.ID, models.TaskUpload, now); err != nil {
			return err
		}
		return applyStats(ctx, tx, entry, now)
	})
	if err != nil {
		r.logger.Error(ctx, "add evidence failed", "evidence_id", entry.ID, "target_date", bundle.TargetDate, "error", err)
		return nil, err
	}

	r.cache.put(entry)
	r.metrics.EntryAdded()
	r.publishQueueDepth(ctx)
	r.logger.Info(ctx, "evidence added", "evidence_id", entry.ID, "content_type", d.Content.Type, "items", d.Content.ItemCount)
	r.subs.publish(ctx, Event{Type: EventEntryAdded, EvidenceID: entry.ID, TargetDate: d.Temporal.TargetDate, At: now})
	return entry, nil
}

// GetByID returns an entry from the cache or, on a miss, from storage.
func (r *Registry) GetByID(ctx context.Context, id string) (*models.EvidenceEntry, error) {
	if e, ok := r.cache.get(id); ok {
		return e, nil
	}

	var e models.EvidenceEntry
	if err := getEntry(ctx, r.store, id, &e); err != nil {
		return nil, err
	}
	r.cache.put(&e)
	return &e, nil
}

// Touch records a user-facing read of an entry.
func (r *Registry) Touch(ctx context.Context, id string) error {
	unlock := r.locks.lock(id)
	defer unlock()

	now := r.clock.Now().UTC()
	var updated models.EvidenceEntry
	err := r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		if err := getEntry(ctx, tx, id, &updated); err != nil {
			return err
		}
		updated.Local.AccessCount++
		updated.Local.LastAccessedAt = now
		return putEntry(ctx, tx, &updated)
	})
	if err != nil {
		return err
	}
	r.cache.put(&updated)
	return nil
}

// Entries returns every entry in id order, bypassing the cache.
func (r *Registry) Entries(ctx context.Context) ([]models.EvidenceEntry, error) {
	kvs, err := r.store.Scan(ctx, storage.BucketRegistry, "")
	if err != nil {
		return nil, err
	}
	out := make([]models.EvidenceEntry, 0, len(kvs))
	for _, kv := range kvs {
		var e models.EvidenceEntry
		if err := decodeEntry(kv.Key, kv.Value, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// UploadResult is the outcome of one upload attempt.
type UploadResult struct {
	Success  bool
	RemoteID string
	Hash     string
	Error    string
	// Final marks a failure after which no automatic retry follows.
	Final bool
}

// MarkUploading moves a pending entry to uploading when its first attempt
// starts. Entries already uploading or completed are left alone.
func (r *Registry) MarkUploading(ctx context.Context, id string) error {
	return r.mutateEntry(ctx, id, func(e *models.EvidenceEntry, now time.Time) error {
		switch e.Descriptor.Upload.Status {
		case models.UploadUploading, models.UploadCompleted:
			return errUnchanged
		}
		return transition(e, models.UploadUploading, now)
	})
}

// UpdateUploadStatus records an upload attempt: attempts are incremented,
// success completes the entry, a final failure fails it and any other
// failure keeps it uploading. The timeline projection is regenerated.
func (r *Registry) UpdateUploadStatus(ctx context.Context, id string, res UploadResult) error {
	return r.mutateEntry(ctx, id, func(e *models.EvidenceEntry, now time.Time) error {
		return applyUploadResult(e, res, now)
	})
}

var errUnchanged = errors.New("unchanged")

// mutateEntry applies fn to the stored entry and writes the entry and its
// projection back in one transaction.
func (r *Registry) mutateEntry(ctx context.Context, id string, fn func(e *models.EvidenceEntry, now time.Time) error) error {
	unlock := r.locks.lock(id)
	defer unlock()

	var e models.EvidenceEntry
	changed := true
	err := r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		if err := getEntry(ctx, tx, id, &e); err != nil {
			return err
		}
		if err := fn(&e, r.now()); err != nil {
			if errors.Is(err, errUnchanged) {
				changed = false
				return nil
			}
			return err
		}
		return saveEntry(ctx, tx, &e)
	})
	if err != nil {
		return err
	}
	if changed {
		r.afterUpdate(ctx, &e)
	}
	return nil
}

func (r *Registry) afterUpdate(ctx context.Context, e *models.EvidenceEntry) {
	r.cache.put(e)
	r.logger.Debug(ctx, "evidence updated", "evidence_id", e.ID, "status", e.Descriptor.Upload.Status, "attempts", e.Descriptor.Upload.Attempts)
	r.subs.publish(ctx, Event{Type: EventEntryUpdated, EvidenceID: e.ID, TargetDate: e.Descriptor.Temporal.TargetDate, At: r.now()})
}

func (r *Registry) now() time.Time { return r.clock.Now().UTC() }

func saveEntry(ctx context.Context, tx storage.Writer, e *models.EvidenceEntry) error {
	if err := putEntry(ctx, tx, e); err != nil {
		return err
	}
	return putTimeline(ctx, tx, e)
}

func transition(e *models.EvidenceEntry, to models.UploadStatus, now time.Time) error {
	from := e.Descriptor.Upload.Status
	if !models.CanTransition(from, to) {
		return fmt.Errorf("evidence %s %s -> %s: %w", e.ID, from, to, common.ErrInvalidTransition)
	}
	e.Descriptor.Upload.Status = to
	e.Descriptor.Temporal.LastModified = now
	e.Local.SyncStatus = to
	return nil
}

func applyUploadResult(e *models.EvidenceEntry, res UploadResult, now time.Time) error {
	up := &e.Descriptor.Upload
	if up.Status == models.UploadCompleted && res.Success {
		return errUnchanged
	}
	if up.Status == models.UploadPending {
		if err := transition(e, models.UploadUploading, now); err != nil {
			return err
		}
	}

	target := models.UploadUploading
	switch {
	case res.Success:
		target = models.UploadCompleted
	case res.Final:
		target = models.UploadFailed
	}
	if err := transition(e, target, now); err != nil {
		return err
	}

	up.Attempts++
	at := now
	up.LastAttempt = &at
	if res.Success {
		up.RemoteID = res.RemoteID
		if res.Hash != "" {
			up.ContentHash = res.Hash
		}
		up.LastError = ""
		e.Descriptor.Temporal.UploadTime = &at
	} else {
		up.LastError = res.Error
	}
	return nil
}

// Clear wipes every bucket. Only a full account reset uses it.
func (r *Registry) Clear(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return err
	}
	r.cache.purge()
	r.metrics.SetQueuePending(0)
	r.logger.Warn(ctx, "vault cleared")
	r.subs.publish(ctx, Event{Type: EventCleared, At: r.now()})
	return nil
}

// Subscribe returns a channel of registry events and a func that ends the
// subscription. Events are dropped for a subscriber whose buffer is full.
func (r *Registry) Subscribe(buffer int) (<-chan Event, func()) {
	return r.subs.subscribe(buffer)
}

func unmarshal(kv storage.KV, v any) error {
	if err := json.Unmarshal(kv.Value, v); err != nil {
		return fmt.Errorf("decode %s: %w", kv.Key, err)
	}
	return nil
}

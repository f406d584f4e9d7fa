package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/common"
)

const seqKey = "sync_seq"

func indexKey(evidenceID string, kind models.TaskKind) string {
	return evidenceID + "/" + string(kind)
}

func taskKey(seq uint64) string {
	return fmt.Sprintf("%020d", seq)
}

func nextSeq(ctx context.Context, tx storage.Writer) (uint64, error) {
	var seq uint64
	raw, err := tx.Get(ctx, storage.BucketMeta, seqKey)
	switch {
	case errors.Is(err, common.ErrorNotFound):
	case err != nil:
		return 0, err
	default:
		if seq, err = strconv.ParseUint(string(raw), 10, 64); err != nil {
			return 0, fmt.Errorf("corrupt sync sequence %q: %w", raw, err)
		}
	}
	seq++
	if err := tx.Put(ctx, storage.BucketMeta, seqKey, []byte(strconv.FormatUint(seq, 10))); err != nil {
		return 0, err
	}
	return seq, nil
}

// enqueue adds a task for (evidenceID, kind) unless one is outstanding, in
// which case the existing task is returned. The entry must exist.
func enqueue(ctx context.Context, tx storage.Writer, evidenceID string, kind models.TaskKind, now time.Time) (*models.SyncTask, error) {
	if raw, err := tx.Get(ctx, storage.BucketSyncIndex, indexKey(evidenceID, kind)); err == nil {
		var t models.SyncTask
		if err := storage.GetJSON(ctx, tx, storage.BucketSyncQueue, string(raw), &t); err != nil {
			return nil, err
		}
		return &t, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if _, err := tx.Get(ctx, storage.BucketRegistry, evidenceID); err != nil {
		return nil, fmt.Errorf("enqueue %s for %s: %w", kind, evidenceID, err)
	}

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return nil, err
	}
	t := &models.SyncTask{
		ID:          taskKey(seq),
		EvidenceID:  evidenceID,
		Kind:        kind,
		Status:      models.TaskPending,
		NextRetryAt: now,
		EnqueuedAt:  now,
		UpdatedAt:   now,
	}
	if err := storage.PutJSON(ctx, tx, storage.BucketSyncQueue, t.ID, t); err != nil {
		return nil, err
	}
	if err := tx.Put(ctx, storage.BucketSyncIndex, indexKey(evidenceID, kind), []byte(t.ID)); err != nil {
		return nil, err
	}
	return t, nil
}

// EnqueueTask schedules a sync obligation for an existing entry. At most one
// task per (evidence id, kind) is outstanding; a duplicate request returns
// the task already queued.
func (r *Registry) EnqueueTask(ctx context.Context, evidenceID string, kind models.TaskKind) (*models.SyncTask, error) {
	var t *models.SyncTask
	err := r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		var err error
		t, err = enqueue(ctx, tx, evidenceID, kind, r.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	r.publishQueueDepth(ctx)
	return t, nil
}

// GetTask loads a task by id.
func (r *Registry) GetTask(ctx context.Context, id string) (*models.SyncTask, error) {
	var t models.SyncTask
	if err := storage.GetJSON(ctx, r.store, storage.BucketSyncQueue, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Tasks returns every queued task in enqueue order.
func (r *Registry) Tasks(ctx context.Context) ([]models.SyncTask, error) {
	kvs, err := r.store.Scan(ctx, storage.BucketSyncQueue, "")
	if err != nil {
		return nil, err
	}
	out := make([]models.SyncTask, 0, len(kvs))
	for _, kv := range kvs {
		var t models.SyncTask
		if err := unmarshal(kv, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Registry) filterTasks(ctx context.Context, keep func(models.SyncTask) bool) ([]models.SyncTask, error) {
	all, err := r.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// PendingTasks returns tasks still subject to automatic processing.
func (r *Registry) PendingTasks(ctx context.Context) ([]models.SyncTask, error) {
	return r.filterTasks(ctx, func(t models.SyncTask) bool { return t.Status == models.TaskPending })
}

// FailedTasks returns tasks that exhausted their retries.
func (r *Registry) FailedTasks(ctx context.Context) ([]models.SyncTask, error) {
	return r.filterTasks(ctx, func(t models.SyncTask) bool { return t.Status == models.TaskFailed })
}

// DueTasks returns pending tasks eligible at now, earliest first.
func (r *Registry) DueTasks(ctx context.Context, now time.Time) ([]models.SyncTask, error) {
	due, err := r.filterTasks(ctx, func(t models.SyncTask) bool { return t.Due(now) })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].NextRetryAt.Equal(due[j].NextRetryAt) {
			return due[i].NextRetryAt.Before(due[j].NextRetryAt)
		}
		return due[i].ID < due[j].ID
	})
	return due, nil
}

// mutateTask loads a task and, for upload tasks, its entry, then writes
// both back atomically. fn returns false to delete the task.
func (r *Registry) mutateTask(ctx context.Context, taskID string, fn func(t *models.SyncTask, e *models.EvidenceEntry, now time.Time) (keep bool, err error)) (*models.SyncTask, error) {
	t, err := r.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	unlock := r.locks.lock(t.EvidenceID)
	defer unlock()

	now := r.now()
	var entry models.EvidenceEntry
	entryChanged := false

	err = r.store.Update(ctx, func(ctx context.Context, tx storage.Writer) error {
		if err := storage.GetJSON(ctx, tx, storage.BucketSyncQueue, taskID, t); err != nil {
			return err
		}
		if err := getEntry(ctx, tx, t.EvidenceID, &entry); err != nil {
			return fmt.Errorf("task %s references evidence %s: %w", t.ID, t.EvidenceID, err)
		}
		before := entry.Descriptor.Upload

		keep, err := fn(t, &entry, now)
		if err != nil {
			return err
		}

		if entry.Descriptor.Upload != before {
			entryChanged = true
			if err := saveEntry(ctx, tx, &entry); err != nil {
				return err
			}
		}

		if !keep {
			if err := tx.Delete(ctx, storage.BucketSyncQueue, t.ID); err != nil {
				return err
			}
			return tx.Delete(ctx, storage.BucketSyncIndex, indexKey(t.EvidenceID, t.Kind))
		}
		t.UpdatedAt = now
		return storage.PutJSON(ctx, tx, storage.BucketSyncQueue, t.ID, t)
	})
	if err != nil {
		return nil, err
	}

	if entryChanged {
		r.afterUpdate(ctx, &entry)
	}
	r.publishQueueDepth(ctx)
	return t, nil
}

func uploadResult(e *models.EvidenceEntry, t *models.SyncTask, res UploadResult, now time.Time) error {
	if t.Kind != models.TaskUpload {
		return nil
	}
	if err := applyUploadResult(e, res, now); err != nil && !errors.Is(err, errUnchanged) {
		return err
	}
	return nil
}

// CompleteTask records a successful attempt and removes the task. For
// upload tasks the entry becomes completed in the same transaction.
func (r *Registry) CompleteTask(ctx context.Context, taskID string, res UploadResult) error {
	res.Success = true
	_, err := r.mutateTask(ctx, taskID, func(t *models.SyncTask, e *models.EvidenceEntry, now time.Time) (bool, error) {
		t.Attempts++
		return false, uploadResult(e, t, res, now)
	})
	return err
}

// RescheduleTask records a failed attempt and sets the next eligible time.
func (r *Registry) RescheduleTask(ctx context.Context, taskID string, res UploadResult, next time.Time) (*models.SyncTask, error) {
	res.Success, res.Final = false, false
	return r.mutateTask(ctx, taskID, func(t *models.SyncTask, e *models.EvidenceEntry, now time.Time) (bool, error) {
		t.Attempts++
		t.LastError = res.Error
		t.NextRetryAt = next
		return true, uploadResult(e, t, res, now)
	})
}

// FailTaskPermanently records the last failed attempt and parks the task in
// the failed state, where only RetryFailedTask revives it.
func (r *Registry) FailTaskPermanently(ctx context.Context, taskID string, res UploadResult) (*models.SyncTask, error) {
	res.Success, res.Final = false, true
	return r.mutateTask(ctx, taskID, func(t *models.SyncTask, e *models.EvidenceEntry, now time.Time) (bool, error) {
		t.Attempts++
		t.LastError = res.Error
		t.Status = models.TaskFailed
		return true, uploadResult(e, t, res, now)
	})
}

// RetryFailedTask is the manual recovery path: the task returns to pending
// with a fresh attempt budget and a failed entry returns to pending.
func (r *Registry) RetryFailedTask(ctx context.Context, taskID string) (*models.SyncTask, error) {
	return r.mutateTask(ctx, taskID, func(t *models.SyncTask, e *models.EvidenceEntry, now time.Time) (bool, error) {
		if t.Status != models.TaskFailed {
			return false, fmt.Errorf("task %s is %s: %w", t.ID, t.Status, common.ErrInvalidTransition)
		}
		t.Status = models.TaskPending
		t.Attempts = 0
		t.NextRetryAt = now
		if t.Kind == models.TaskUpload && e.Descriptor.Upload.Status == models.UploadFailed {
			if err := transition(e, models.UploadPending, now); err != nil {
				return false, err
			}
		}
		return true, nil
	})
}

func (r *Registry) publishQueueDepth(ctx context.Context) {
	if r.metrics == nil {
		return
	}
	pending, err := r.PendingTasks(ctx)
	if err != nil {
		return
	}
	r.metrics.SetQueuePending(len(pending))
}

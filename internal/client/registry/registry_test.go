package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/metagen"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func newRegistry(t *testing.T) (*Registry, *storage.MemoryStore, *clock.Fake) {
	t.Helper()
	store := storage.NewMemoryStore()
	clk := clock.NewFake(t0)
	return New(store, Options{Clock: clk, CacheSize: 2}), store, clk
}

func bundleFor(date string, texts ...string) models.EvidenceBundle {
	b := models.EvidenceBundle{TargetDate: date, Photo: &models.Photo{Name: "p-" + date + ".jpg", Data: []byte("jpeg")}}
	for _, txt := range texts {
		b.Messages = append(b.Messages, models.Message{Text: txt, SentAt: t0})
	}
	return b
}

func TestAdd_PersistsEntryProjectionTaskAndStats(t *testing.T) {
	r, store, _ := newRegistry(t)
	ctx := context.Background()

	events, unsubscribe := r.Subscribe(4)
	defer unsubscribe()

	e, err := r.Add(ctx, bundleFor("2024-03-01", "hi", "there"), AddOptions{Metadata: metagen.Options{FilterApproved: true}})
	require.NoError(t, err)

	assert.Equal(t, models.ContentMixed, e.Descriptor.Content.Type)
	assert.Equal(t, 3, e.Descriptor.Content.ItemCount)
	assert.Equal(t, models.UploadPending, e.Descriptor.Upload.Status)
	assert.Equal(t, t0, e.Local.AddedAt)

	assert.Equal(t, 1, store.Len(storage.BucketRegistry))
	assert.Equal(t, 1, store.Len(storage.BucketTimeline))

	pending, err := r.PendingTasks(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, e.ID, pending[0].EvidenceID)
	assert.Equal(t, models.TaskUpload, pending[0].Kind)

	stats, err := r.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.ByContentType[models.ContentMixed])

	select {
	case ev := <-events:
		assert.Equal(t, EventEntryAdded, ev.Type)
		assert.Equal(t, e.ID, ev.EvidenceID)
	default:
		t.Fatal("expected entry_added event")
	}
}

func TestAdd_DuplicateRejectedWithoutSecondTask(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()

	_, err := r.Add(ctx, bundleFor("2024-03-01", "hi"), AddOptions{})
	require.NoError(t, err)
	_, err = r.Add(ctx, bundleFor("2024-03-01", "hi"), AddOptions{})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	stats, err := r.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEntries)
}

func TestAdd_AtomicOnPersistenceFailure(t *testing.T) {
	r, store, _ := newRegistry(t)
	store.FailPut = func(bucket, _ string) error {
		if bucket == storage.BucketSyncQueue {
			return errors.New("disk full")
		}
		return nil
	}

	_, err := r.Add(context.Background(), bundleFor("2024-03-01", "hi"), AddOptions{})
	require.ErrorIs(t, err, common.ErrPersistence)

	for _, b := range []string{storage.BucketRegistry, storage.BucketTimeline, storage.BucketSyncQueue, storage.BucketSyncIndex, storage.BucketMeta} {
		assert.Zero(t, store.Len(b), b)
	}
}

func TestAdd_UsesPrebuiltDescriptor(t *testing.T) {
	r, _, _ := newRegistry(t)
	b := bundleFor("2024-03-01")
	d := metagen.Generate(b, metagen.Options{Now: t0})
	d.Verification = models.Verification{Algorithm: "SHA-256", PackageHash: "abc"}

	e, err := r.Add(context.Background(), b, AddOptions{Descriptor: &d})
	require.NoError(t, err)
	assert.Equal(t, "abc", e.Descriptor.Verification.PackageHash)
}

func TestGetByID_CacheAndStorage(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 3; i++ {
		e, err := r.Add(ctx, bundleFor(fmt.Sprintf("2024-03-0%d", i)), AddOptions{})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	assert.Equal(t, 2, r.cache.len(), "cache is bounded")

	_, cached := r.cache.get(ids[0])
	assert.False(t, cached, "oldest entry evicted")

	e, err := r.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], e.ID)
	_, cached = r.cache.get(ids[0])
	assert.True(t, cached)

	_, err = r.GetByID(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTouch_UpdatesAccessStats(t *testing.T) {
	r, _, clk := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	require.NoError(t, r.Touch(ctx, e.ID))
	require.NoError(t, r.Touch(ctx, e.ID))

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Local.AccessCount)
	assert.Equal(t, t0.Add(time.Hour), got.Local.LastAccessedAt)

	require.ErrorIs(t, r.Touch(ctx, "missing"), common.ErrorNotFound)
}

func TestUpdateUploadStatus_StateMachine(t *testing.T) {
	r, _, clk := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	events, unsubscribe := r.Subscribe(8)
	defer unsubscribe()

	require.NoError(t, r.MarkUploading(ctx, e.ID))
	require.NoError(t, r.UpdateUploadStatus(ctx, e.ID, UploadResult{Error: "timeout"}))

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadUploading, got.Descriptor.Upload.Status)
	assert.Equal(t, 1, got.Descriptor.Upload.Attempts)
	assert.Equal(t, "timeout", got.Descriptor.Upload.LastError)

	clk.Advance(time.Minute)
	require.NoError(t, r.UpdateUploadStatus(ctx, e.ID, UploadResult{Success: true, RemoteID: "r-1", Hash: "h"}))

	got, err = r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	up := got.Descriptor.Upload
	assert.Equal(t, models.UploadCompleted, up.Status)
	assert.Equal(t, 2, up.Attempts)
	assert.Equal(t, "r-1", up.RemoteID)
	assert.Equal(t, "h", up.ContentHash)
	assert.Empty(t, up.LastError)
	require.NotNil(t, got.Descriptor.Temporal.UploadTime)
	assert.Equal(t, t0.Add(time.Minute), *got.Descriptor.Temporal.UploadTime)
	assert.Equal(t, models.UploadCompleted, got.Local.SyncStatus)

	// the projection follows the entry
	page, err := r.QueryTimeline(ctx, TimelineQuery{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, models.UploadCompleted, page.Entries[0].UploadStatus)
	assert.Equal(t, "r-1", page.Entries[0].RemoteID)

	// completed never moves backwards
	err = r.UpdateUploadStatus(ctx, e.ID, UploadResult{Error: "late", Final: true})
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	var updates int
	for len(events) > 0 {
		if ev := <-events; ev.Type == EventEntryUpdated {
			updates++
		}
	}
	assert.Equal(t, 3, updates)
}

func TestUpdateUploadStatus_FinalFailure(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	require.NoError(t, r.UpdateUploadStatus(ctx, e.ID, UploadResult{Error: "rejected", Final: true}))
	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadFailed, got.Descriptor.Upload.Status)
	assert.Equal(t, 1, got.Descriptor.Upload.Attempts)

	err = r.UpdateUploadStatus(ctx, e.ID, UploadResult{Success: true})
	require.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestVerificationHashesSurviveUpload(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()
	b := bundleFor("2024-03-01")
	d := metagen.Generate(b, metagen.Options{Now: t0})
	d.Verification = models.Verification{Algorithm: "SHA-256", PackageHash: "pkg", PhotoHash: "photo"}
	e, err := r.Add(ctx, b, AddOptions{Descriptor: &d})
	require.NoError(t, err)

	require.NoError(t, r.UpdateUploadStatus(ctx, e.ID, UploadResult{Success: true, Hash: "other"}))
	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Verification, got.Descriptor.Verification)
}

func TestSameIDWritesAreSerialized(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Touch(ctx, e.ID))
		}()
	}
	wg.Wait()

	r.cache.purge()
	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Local.AccessCount)
}

func TestClear(t *testing.T) {
	r, store, _ := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	require.NoError(t, r.Clear(ctx))
	_, err = r.GetByID(ctx, e.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Zero(t, store.Len(storage.BucketSyncQueue))
}

func TestStatistics_Rebuild(t *testing.T) {
	r, store, _ := newRegistry(t)
	ctx := context.Background()
	_, err := r.Add(ctx, bundleFor("2024-03-01", "a"), AddOptions{})
	require.NoError(t, err)
	_, err = r.Add(ctx, models.EvidenceBundle{TargetDate: "2024-03-02", Messages: []models.Message{{Text: "b"}}}, AddOptions{})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, storage.BucketMeta, statsKey))

	stats, err := r.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.ByContentType[models.ContentMessages])
	assert.Equal(t, 1, stats.PhotoCount)
	assert.Equal(t, 2, stats.MessageCount)
}

func TestRegistry_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	defer store.Close()

	reg := prometheus.NewRegistry()
	m := metrics.NewVault(reg)
	r := New(store, Options{Clock: clock.NewFake(t0), Metrics: m})

	e, err := r.Add(ctx, bundleFor("2024-03-01", "hello"), AddOptions{})
	require.NoError(t, err)
	_, err = r.Add(ctx, bundleFor("2024-03-01", "hello"), AddOptions{})
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntriesAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueuePending))

	// a fresh registry over the same store sees the entry
	r2 := New(store, Options{})
	got, err := r2.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Descriptor.PackageID, got.Descriptor.PackageID)
}

func TestGetByID_ColdReadKeepsNonUTF8Names(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	b := bundleFor("2024-03-01", "caf\xe9 au lait")
	b.Photo.Name = "caf\xe9.jpg"
	e, err := New(store, Options{Clock: clock.NewFake(t0)}).Add(ctx, b, AddOptions{})
	require.NoError(t, err)

	got, err := New(store, Options{Clock: clock.NewFake(t0)}).GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got.Content)
	assert.Equal(t, "caf\xe9.jpg", got.Content.Photo.Name)

	all, err := New(store, Options{}).Entries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b, all[0].Content)
}

func TestAdd_ClosedSQLiteStoreIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenSQLite(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = New(store, Options{Clock: clock.NewFake(t0)}).Add(ctx, bundleFor("2024-03-01", "hi"), AddOptions{})
	require.ErrorIs(t, err, common.ErrPersistence)
}

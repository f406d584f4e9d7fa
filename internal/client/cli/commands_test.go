package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/app"
	"github.com/dmitrijs2005/evidencevault/internal/client/config"
	"github.com/dmitrijs2005/evidencevault/internal/client/remote"
	"github.com/dmitrijs2005/evidencevault/internal/client/syncer"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, store *remote.MemoryStore) (*Runner, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DBPath = filepath.Join(dir, "vault.db")
	cfg.KeyFile = filepath.Join(dir, "vault.key")
	cfg.AuditLogPath = filepath.Join(dir, "audit.jsonl")
	cfg.InboxDir = filepath.Join(dir, "inbox")
	cfg.BlockedTerms = []string{"forbidden"}
	cfg.MaxRetries = 1

	day := filepath.Join(cfg.InboxDir, "2024-03-01")
	require.NoError(t, os.MkdirAll(filepath.Join(day, "photos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(day, "photos", "a.jpg"), []byte("jpeg"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(day, "messages.json"),
		[]byte(`[{"text": "hello", "sent_at": "2024-03-01T08:00:00Z"}]`), 0o600))

	bad := filepath.Join(cfg.InboxDir, "2024-03-03")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "messages.json"),
		[]byte(`[{"text": "something forbidden", "sent_at": "2024-03-03T08:00:00Z"}]`), 0o600))

	a, err := app.New(context.Background(), cfg, app.Options{Remote: store, Logger: logging.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	var out bytes.Buffer
	r := NewRunner(a, &out)
	r.now = func() time.Time { return time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC) }
	return r, &out
}

func TestRunner_ProcessSyncTimeline(t *testing.T) {
	store := remote.NewMemoryStore()
	r, out := newRunner(t, store)
	ctx := context.Background()

	// defaults to yesterday
	require.NoError(t, r.Dispatch(ctx, "process", nil, nil))
	assert.Contains(t, out.String(), "2024-03-01: processed")

	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "process", nil, []string{"-date", "2024-03-02"}))
	assert.Contains(t, out.String(), "no_evidence")

	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "sync", nil, nil))
	assert.Contains(t, out.String(), "1 completed")

	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "timeline", nil, []string{"-status", "completed"}))
	assert.Contains(t, out.String(), "2024-03-01")
	assert.Contains(t, out.String(), "1 of 1")

	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "status", nil, nil))
	assert.Contains(t, out.String(), "entries:   1")
	assert.Contains(t, out.String(), "pending:   0")
}

func TestRunner_ReviewQueue(t *testing.T) {
	r, out := newRunner(t, remote.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, r.Dispatch(ctx, "process", []string{"2024-03-03"}, nil))
	assert.Contains(t, out.String(), "filtering_failed, queued for manual review")

	items, err := r.app.Review.List(ctx, "2024-03-03")
	require.NoError(t, err)
	require.Len(t, items, 1)

	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "review", nil, nil))
	assert.Contains(t, out.String(), items[0].ID)

	require.NoError(t, r.Dispatch(ctx, "review", []string{"dismiss", items[0].ID}, nil))
	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "review", nil, nil))
	assert.Contains(t, out.String(), "empty")
}

func TestRunner_RetryAndVerify(t *testing.T) {
	store := remote.NewMemoryStore()
	store.Fail = func(op string) error {
		if op == "upload" {
			return remote.ErrUnavailable
		}
		return nil
	}
	r, out := newRunner(t, store)
	ctx := context.Background()

	require.NoError(t, r.Dispatch(ctx, "process", []string{"2024-03-01"}, nil))
	require.NoError(t, r.Dispatch(ctx, "sync", nil, nil))
	assert.Contains(t, out.String(), "1 failed")

	failed, err := r.app.Registry.FailedTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)

	store.Fail = nil
	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "retry", []string{"all"}, nil))
	assert.Contains(t, out.String(), failed[0].ID)
	require.NoError(t, r.Dispatch(ctx, "sync", nil, nil))

	out.Reset()
	require.NoError(t, r.Dispatch(ctx, "verify", []string{failed[0].EvidenceID}, nil))
	assert.Contains(t, out.String(), "ok")

	require.Error(t, r.Dispatch(ctx, "verify", nil, nil))
	require.Error(t, r.Dispatch(ctx, "bogus", nil, nil))
}

func TestRunner_SyncOffline(t *testing.T) {
	store := remote.NewMemoryStore()
	store.Fail = func(string) error { return remote.ErrUnavailable }
	r, _ := newRunner(t, store)

	require.ErrorIs(t, r.Dispatch(context.Background(), "sync", nil, nil), syncer.ErrOffline)
}

func TestMain_Usage(t *testing.T) {
	err := Main(context.Background(), []string{"-db", "x.db"}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, ErrUsage)
}

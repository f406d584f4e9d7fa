package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KeyValueStore {
	t.Helper()
	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]KeyValueStore{
		"sqlite": sqlite,
		"memory": NewMemoryStore(),
	}
}

func TestStore_GetPutDeleteScan(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, BucketRegistry, "missing")
			require.ErrorIs(t, err, common.ErrorNotFound)

			require.NoError(t, s.Put(ctx, BucketTimeline, "2024-03-02#b", []byte("2")))
			require.NoError(t, s.Put(ctx, BucketTimeline, "2024-03-01#a", []byte("1")))
			require.NoError(t, s.Put(ctx, BucketTimeline, "2024-04-01#c", []byte("3")))
			require.NoError(t, s.Put(ctx, BucketRegistry, "2024-03-01#z", []byte("other bucket")))

			got, err := s.Get(ctx, BucketTimeline, "2024-03-01#a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), got)

			march, err := s.Scan(ctx, BucketTimeline, "2024-03")
			require.NoError(t, err)
			require.Len(t, march, 2)
			assert.Equal(t, "2024-03-01#a", march[0].Key)
			assert.Equal(t, "2024-03-02#b", march[1].Key)

			all, err := s.Scan(ctx, BucketTimeline, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, s.Put(ctx, BucketTimeline, "2024-03-01#a", []byte("1b")))
			got, err = s.Get(ctx, BucketTimeline, "2024-03-01#a")
			require.NoError(t, err)
			assert.Equal(t, []byte("1b"), got)

			require.NoError(t, s.Delete(ctx, BucketTimeline, "2024-03-01#a"))
			_, err = s.Get(ctx, BucketTimeline, "2024-03-01#a")
			require.ErrorIs(t, err, common.ErrorNotFound)

			require.NoError(t, s.Clear(ctx))
			all, err = s.Scan(ctx, BucketTimeline, "")
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStore_UpdateIsAtomic(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("boom")

			err := s.Update(ctx, func(ctx context.Context, tx Writer) error {
				require.NoError(t, tx.Put(ctx, BucketRegistry, "e1", []byte("entry")))
				require.NoError(t, tx.Put(ctx, BucketTimeline, "2024-03-01#e1", []byte("projection")))

				// writes are visible inside the transaction
				v, err := tx.Get(ctx, BucketRegistry, "e1")
				require.NoError(t, err)
				require.Equal(t, []byte("entry"), v)
				return boom
			})
			require.ErrorIs(t, err, boom)

			_, err = s.Get(ctx, BucketRegistry, "e1")
			require.ErrorIs(t, err, common.ErrorNotFound)
			_, err = s.Get(ctx, BucketTimeline, "2024-03-01#e1")
			require.ErrorIs(t, err, common.ErrorNotFound)

			require.NoError(t, s.Update(ctx, func(ctx context.Context, tx Writer) error {
				if err := tx.Put(ctx, BucketRegistry, "e1", []byte("entry")); err != nil {
					return err
				}
				return tx.Put(ctx, BucketSyncQueue, "00000000000000000001", []byte("task"))
			}))

			var n int
			require.NoError(t, s.View(ctx, func(ctx context.Context, tx Reader) error {
				kvs, err := tx.Scan(ctx, BucketSyncQueue, "")
				n = len(kvs)
				return err
			}))
			require.Equal(t, 1, n)
		})
	}
}

func TestStore_JSONHelpers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	type rec struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}
	require.NoError(t, PutJSON(ctx, s, BucketMeta, "k", rec{ID: "x", Count: 2}))

	var got rec
	require.NoError(t, GetJSON(ctx, s, BucketMeta, "k", &got))
	assert.Equal(t, rec{ID: "x", Count: 2}, got)

	require.NoError(t, s.Put(ctx, BucketMeta, "bad", []byte("{")))
	require.Error(t, GetJSON(ctx, s, BucketMeta, "bad", &got))
	require.ErrorIs(t, GetJSON(ctx, s, BucketMeta, "nope", &got), common.ErrorNotFound)
}

func TestMemoryStore_FailPutIsPersistenceError(t *testing.T) {
	s := NewMemoryStore()
	s.FailPut = func(bucket, _ string) error {
		if bucket == BucketSyncQueue {
			return errors.New("disk full")
		}
		return nil
	}

	err := s.Update(context.Background(), func(ctx context.Context, tx Writer) error {
		if err := tx.Put(ctx, BucketRegistry, "e1", []byte("x")); err != nil {
			return err
		}
		return tx.Put(ctx, BucketSyncQueue, "1", []byte("t"))
	})
	require.ErrorIs(t, err, common.ErrPersistence)
	assert.Equal(t, 0, s.Len(BucketRegistry))
}

func TestSQLiteStore_TxFailuresArePersistenceErrors(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)

	err = s.Update(ctx, func(ctx context.Context, tx Writer) error {
		return fmt.Errorf("evidence e1: %w", common.ErrAlreadyExists)
	})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.NotErrorIs(t, err, common.ErrPersistence)

	require.NoError(t, s.Close())

	called := false
	err = s.Update(ctx, func(ctx context.Context, tx Writer) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, common.ErrPersistence)
	assert.False(t, called)

	err = s.View(ctx, func(ctx context.Context, tx Reader) error { return nil })
	require.ErrorIs(t, err, common.ErrPersistence)
}

func TestOpenSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vault.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, BucketMeta, "salt", []byte{1, 2, 3}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, BucketMeta, "salt")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, v)
}

func TestOpenSQLite_InMemory(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM goose_db_version`).Scan(&n))
	assert.Positive(t, n)
}

package objects

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

const insertQ = `(?s)^\s*INSERT\s+INTO\s+evidence_objects\b.*ON\s+CONFLICT\s*\(collection_id,\s*package_id\)\s*DO\s+NOTHING\s*$`

func sampleObject() *models.StoredObject {
	return &models.StoredObject{
		ID:           "7f0c1c4e-0000-4000-8000-000000000001",
		CollectionID: "home",
		PackageID:    "pkg-1",
		StorageKey:   "collections/home/pkg-1",
		ContentHash:  "abc",
		Algorithm:    "AES-256-GCM",
		Nonce:        []byte("nonce"),
		Size:         42,
		Metadata:     map[string]string{"target_date": "2024-03-01"},
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		err     error
		created bool
		wantErr bool
	}{
		{name: "created", result: sqlmock.NewResult(0, 1), created: true},
		{name: "duplicate", result: sqlmock.NewResult(0, 0), created: false},
		{name: "db error", err: errors.New("conn reset"), wantErr: true},
		{name: "odd rows", result: sqlmock.NewResult(0, 2), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			o := sampleObject()

			exp := mock.ExpectExec(insertQ).WithArgs(o.ID, "home", "pkg-1", o.StorageKey, "abc", "AES-256-GCM",
				[]byte("nonce"), int64(42), `{"target_date":"2024-03-01"}`)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(tt.result)
			}

			created, err := repo.Insert(context.Background(), o)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.created, created)
		})
	}
}

func TestGetByPackage(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)

	cols := []string{"id", "collection_id", "package_id", "storage_key", "content_hash", "algorithm", "nonce", "size", "metadata", "created_at", "updated_at"}
	mock.ExpectQuery(`(?s)SELECT .* FROM evidence_objects\s+WHERE collection_id=\$1 AND package_id=\$2`).
		WithArgs("home", "pkg-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("id-1", "home", "pkg-1", "k", "abc", "AES-256-GCM", []byte("n"), int64(42), `{"item_count":"3"}`, now, now))

	o, err := repo.GetByPackage(context.Background(), "home", "pkg-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", o.ID)
	assert.Equal(t, "abc", o.ContentHash)
	assert.Equal(t, map[string]string{"item_count": "3"}, o.Metadata)
	assert.Equal(t, now, o.CreatedAt)
}

func TestGetByPackage_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT`).WithArgs("home", "missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByPackage(context.Background(), "home", "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateMetadata(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)UPDATE evidence_objects SET metadata=\$3.*RETURNING id`).
		WithArgs("home", "pkg-1", `{"upload_status":"uploaded"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("id-1"))
	mock.ExpectQuery(`UPDATE evidence_objects`).
		WithArgs("home", "gone", `{}`).
		WillReturnError(sql.ErrNoRows)

	id, err := repo.UpdateMetadata(context.Background(), "home", "pkg-1", map[string]string{"upload_status": "uploaded"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)

	_, err = repo.UpdateMetadata(context.Background(), "home", "gone", nil)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`DELETE FROM evidence_objects WHERE collection_id=\$1 AND package_id=\$2 RETURNING storage_key`).
		WithArgs("home", "pkg-1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_key"}).AddRow("k1"))
	mock.ExpectQuery(`DELETE FROM evidence_objects`).
		WithArgs("home", "pkg-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`DELETE FROM evidence_objects`).
		WithArgs("home", "pkg-2").
		WillReturnError(errors.New("timeout"))

	key, err := repo.Delete(context.Background(), "home", "pkg-1")
	require.NoError(t, err)
	assert.Equal(t, "k1", key)

	_, err = repo.Delete(context.Background(), "home", "pkg-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Delete(context.Background(), "home", "pkg-2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

package objects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/dmitrijs2005/evidencevault/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func encodeMetadata(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

// Insert adds o. A conflicting (collection_id, package_id) leaves the
// existing row untouched and reports created=false.
func (r *PostgresRepository) Insert(ctx context.Context, o *models.StoredObject) (bool, error) {
	meta, err := encodeMetadata(o.Metadata)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO evidence_objects (id, collection_id, package_id, storage_key, content_hash, algorithm, nonce, size, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (collection_id, package_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		o.ID, o.CollectionID, o.PackageID, o.StorageKey, o.ContentHash, o.Algorithm, o.Nonce, o.Size, meta)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// GetByPackage returns the object or common.ErrorNotFound.
func (r *PostgresRepository) GetByPackage(ctx context.Context, collectionID, packageID string) (*models.StoredObject, error) {
	query := `
		SELECT id, collection_id, package_id, storage_key, content_hash, algorithm, nonce, size, metadata, created_at, updated_at
		FROM evidence_objects
		WHERE collection_id=$1 AND package_id=$2
	`

	o := &models.StoredObject{}
	var meta string
	err := r.db.QueryRowContext(ctx, query, collectionID, packageID).Scan(
		&o.ID, &o.CollectionID, &o.PackageID, &o.StorageKey, &o.ContentHash, &o.Algorithm,
		&o.Nonce, &o.Size, &meta, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select object: %w", err)
	}
	if err := json.Unmarshal([]byte(meta), &o.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) UpdateMetadata(ctx context.Context, collectionID, packageID string, metadata map[string]string) (string, error) {
	meta, err := encodeMetadata(metadata)
	if err != nil {
		return "", err
	}

	query := `
		UPDATE evidence_objects SET metadata=$3, updated_at=now()
		WHERE collection_id=$1 AND package_id=$2
		RETURNING id
	`
	var id string
	err = r.db.QueryRowContext(ctx, query, collectionID, packageID, meta).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to update metadata: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collectionID, packageID string) (string, error) {
	query := `DELETE FROM evidence_objects WHERE collection_id=$1 AND package_id=$2 RETURNING storage_key`

	var key string
	err := r.db.QueryRowContext(ctx, query, collectionID, packageID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete object: %w", err)
	}
	return key, nil
}

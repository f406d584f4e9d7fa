package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/client/migrations"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/dbx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps all buckets in a single kv table.
type SQLiteStore struct {
	db *sql.DB
	sqlOps
}

// OpenSQLite opens (creating if needed) the vault database at path and
// applies pending migrations. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open vault db: %w", err)
	}
	// one connection: the vault has a single writer and :memory: databases
	// are per-connection
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, sqlOps: sqlOps{db: db}}, nil
}

// RunMigrations brings the vault schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// DB exposes the underlying handle (used by tests and diagnostics).
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Update(ctx context.Context, fn func(ctx context.Context, tx Writer) error) error {
	fnFailed := false
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := fn(ctx, sqlOps{db: tx})
		fnFailed = err != nil
		return err
	})
	return txErr("update", err, fnFailed)
}

func (s *SQLiteStore) View(ctx context.Context, fn func(ctx context.Context, tx Reader) error) error {
	fnFailed := false
	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		err := fn(ctx, sqlOps{db: tx})
		fnFailed = err != nil
		return err
	})
	return txErr("view", err, fnFailed)
}

// txErr reports begin and commit failures as persistence errors. Errors
// returned by the transaction body pass through unchanged.
func txErr(op string, err error, fnFailed bool) error {
	if err == nil || fnFailed || errors.Is(err, common.ErrPersistence) {
		return err
	}
	return persistenceErr(op, "tx", "commit", err)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return persistenceErr("clear", "*", "*", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqlOps implements Writer over either the database or a transaction.
type sqlOps struct {
	db dbx.DBTX
}

func (o sqlOps) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	var value []byte
	err := o.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE bucket = ? AND key = ?`, bucket, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, common.ErrorNotFound)
	}
	if err != nil {
		return nil, persistenceErr("get", bucket, key, err)
	}
	return value, nil
}

func (o sqlOps) Put(ctx context.Context, bucket, key string, value []byte) error {
	_, err := o.db.ExecContext(ctx, `
		INSERT INTO kv (bucket, key, value, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(bucket, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, bucket, key, value)
	if err != nil {
		return persistenceErr("put", bucket, key, err)
	}
	return nil
}

func (o sqlOps) Delete(ctx context.Context, bucket, key string) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM kv WHERE bucket = ? AND key = ?`, bucket, key); err != nil {
		return persistenceErr("delete", bucket, key, err)
	}
	return nil
}

func (o sqlOps) Scan(ctx context.Context, bucket, prefix string) ([]KV, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT key, value FROM kv
		WHERE bucket = ? AND substr(key, 1, ?) = ?
		ORDER BY key
	`, bucket, len(prefix), prefix)
	if err != nil {
		return nil, persistenceErr("scan", bucket, prefix+"*", err)
	}
	defer rows.Close()

	var out []KV
	for rows.Next() {
		var kv KV
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, persistenceErr("scan", bucket, prefix+"*", err)
		}
		out = append(out, kv)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("scan", bucket, prefix+"*", err)
	}
	return out, nil
}

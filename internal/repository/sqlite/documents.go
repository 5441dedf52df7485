// Package sqlite stores library documents in an embedded SQLite file using
// the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/storage"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

type DocumentStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*DocumentStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time keeps CAS updates serialized inside this process.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &DocumentStore{db: db}, nil
}

func applyMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
            key TEXT PRIMARY KEY,
            data BLOB NOT NULL,
            revision INTEGER NOT NULL,
            updated_at TEXT NOT NULL
        );`); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

func (s *DocumentStore) Get(ctx context.Context, key string) (*storage.Document, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	doc := &storage.Document{Key: key}
	logger.DatabaseCall("sqlite.get", key)
	err := s.db.QueryRowContext(ctx, `SELECT data, revision FROM documents WHERE key = ?`, key).Scan(&doc.Data, &doc.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("sqlite.get", 0, nil, "key", key)
		return doc, nil
	}
	logger.DatabaseResult("sqlite.get", 1, err, "key", key)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	if err := storage.ValidateKey(key); err != nil {
		return 0, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var (
		res sql.Result
		err error
	)
	logger.DatabaseCall("sqlite.put", key, "expected_revision", expected)
	if expected == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO documents (key, data, revision, updated_at) VALUES (?, ?, 1, ?) ON CONFLICT(key) DO NOTHING`,
			key, data, now)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE documents SET data = ?, revision = revision + 1, updated_at = ? WHERE key = ? AND revision = ?`,
			data, now, key, expected)
	}
	if err != nil {
		logger.DatabaseResult("sqlite.put", 0, err, "key", key)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("sqlite.put", n, err, "key", key)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, domain.ErrRevisionConflict
	}
	return expected + 1, nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	return err
}

func (s *DocumentStore) Close() error {
	return s.db.Close()
}

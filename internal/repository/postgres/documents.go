package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/storage"

	_ "github.com/lib/pq"
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS library_documents (
	key        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	revision   BIGINT NOT NULL,
	updated_on TIMESTAMPTZ NOT NULL
)`

// DocumentStore keeps library documents in one PostgreSQL table so several
// server instances can share state.
type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Open connects with the lib/pq driver, pings and creates the table.
func Open(ctx context.Context, dsn string) (*DocumentStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := NewDocumentStore(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *DocumentStore) Migrate(ctx context.Context) error {
	logger.DatabaseCall("migrate", "library_documents")
	_, err := s.db.ExecContext(ctx, createDocumentsTable)
	logger.DatabaseResult("migrate", 0, err)
	if err != nil {
		return fmt.Errorf("failed to create library_documents: %w", err)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, key string) (*storage.Document, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	doc := &storage.Document{Key: key}
	query := `SELECT data, revision FROM library_documents WHERE key = $1`
	logger.DatabaseCall("get", key)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&doc.Data, &doc.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("get", 0, nil, "key", key)
		return doc, nil
	}
	logger.DatabaseResult("get", 1, err, "key", key)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	if err := storage.ValidateKey(key); err != nil {
		return 0, err
	}

	var (
		res sql.Result
		err error
	)
	// lib/pq sends []byte as bytea, which JSONB rejects.
	payload := string(data)
	logger.DatabaseCall("put", key, "expected_revision", expected)
	if expected == 0 {
		query := `INSERT INTO library_documents (key, data, revision, updated_on) VALUES ($1, $2, 1, $3)
		          ON CONFLICT (key) DO NOTHING`
		res, err = s.db.ExecContext(ctx, query, key, payload, time.Now().UTC())
	} else {
		query := `UPDATE library_documents SET data = $1, revision = revision + 1, updated_on = $2
		          WHERE key = $3 AND revision = $4`
		res, err = s.db.ExecContext(ctx, query, payload, time.Now().UTC(), key, expected)
	}
	if err != nil {
		logger.DatabaseResult("put", 0, err, "key", key)
		return 0, err
	}

	n, err := res.RowsAffected()
	logger.DatabaseResult("put", n, err, "key", key)
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
	logger.DatabaseCall("delete", key)
	res, err := s.db.ExecContext(ctx, `DELETE FROM library_documents WHERE key = $1`, key)
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("delete", n, err, "key", key)
	return err
}

func (s *DocumentStore) Close() error {
	return s.db.Close()
}

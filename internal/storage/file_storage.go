package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
)

// fileEnvelope is the on-disk layout of one document.
type fileEnvelope struct {
	Revision int64           `json:"revision"`
	Data     json.RawMessage `json:"data"`
}

// FileStore keeps each document as <dir>/<key>.json. Compare-and-swap is
// guarded by an in-process lock, so a directory must not be shared between
// processes; use the sqlite or postgres backend for that.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// GetLocalPath returns the filesystem path for a key
func (f *FileStore) GetLocalPath(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Get(ctx context.Context, key string) (*Document, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	logger.DatabaseCall("file.get", key)
	env, err := f.read(key)
	logger.DatabaseResult("file.get", 1, err, "key", key)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return &Document{Key: key}, nil
	}
	return &Document{Key: key, Data: env.Data, Revision: env.Revision}, nil
}

func (f *FileStore) Put(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	if err := ValidateKey(key); err != nil {
		return 0, err
	}
	if !json.Valid(data) {
		return 0, fmt.Errorf("document %q is not valid JSON", key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	logger.DatabaseCall("file.put", key, "expected_revision", expected)
	current, err := f.read(key)
	if err != nil {
		logger.DatabaseResult("file.put", 0, err, "key", key)
		return 0, err
	}
	var currentRev int64
	if current != nil {
		currentRev = current.Revision
	}
	if currentRev != expected {
		logger.DatabaseResult("file.put", 0, nil, "key", key, "conflict", true)
		return 0, domain.ErrRevisionConflict
	}

	next := expected + 1
	raw, err := json.Marshal(fileEnvelope{Revision: next, Data: data})
	if err != nil {
		return 0, err
	}
	err = f.writeAtomic(f.GetLocalPath(key), raw)
	logger.DatabaseResult("file.put", 1, err, "key", key)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.GetLocalPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// read returns nil, nil when the document file does not exist.
func (f *FileStore) read(key string) (*fileEnvelope, error) {
	raw, err := os.ReadFile(f.GetLocalPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	var env fileEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("corrupt document file %s: %w", f.GetLocalPath(key), err)
	}
	return &env, nil
}

// writeAtomic writes to a temp file in the same directory and renames it
// over path, so readers never observe a partial document.
func (f *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".doc-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/storage"
)

// SchemaVersion is the envelope version written by this build.
//
//	1: bare JSON array, as written by the browser storefront
//	2: {"schema_version": 2, "items": [...]}
const SchemaVersion = 2

type envelope[T any] struct {
	SchemaVersion int `json:"schema_version"`
	Items         []T `json:"items"`
}

// Collection is a ListRepository over a single document key.
type Collection[T any] struct {
	docs    storage.DocumentStore
	key     string
	retries int
	legacy  func(data []byte) ([]T, error)
}

func NewCollection[T any](docs storage.DocumentStore, key string, retries int) *Collection[T] {
	if retries < 1 {
		retries = 1
	}
	return &Collection[T]{
		docs:    docs,
		key:     key,
		retries: retries,
		legacy:  decodeBareArray[T],
	}
}

// withLegacyDecoder overrides how schema 1 documents are read.
func (c *Collection[T]) withLegacyDecoder(fn func(data []byte) ([]T, error)) *Collection[T] {
	c.legacy = fn
	return c
}

func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, _, err := c.load(ctx)
	return items, err
}

// Mutate runs a read-modify-write cycle, retrying when the document revision
// moved underneath it.
func (c *Collection[T]) Mutate(ctx context.Context, fn MutateFunc[T]) error {
	for attempt := 1; attempt <= c.retries; attempt++ {
		items, rev, err := c.load(ctx)
		if err != nil {
			return err
		}

		next, err := fn(items)
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}

		data, err := json.Marshal(envelope[T]{SchemaVersion: SchemaVersion, Items: next})
		if err != nil {
			return &domain.StorageError{Op: "encode", Key: c.key, Err: err}
		}

		_, err = c.docs.Put(ctx, c.key, data, rev)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrRevisionConflict) {
			return &domain.StorageError{Op: "write", Key: c.key, Err: err}
		}
		logger.Warn("Document changed during update, retrying", "key", c.key, "attempt", attempt)
	}
	return &domain.StorageError{Op: "write", Key: c.key, Err: domain.ErrRevisionConflict}
}

func (c *Collection[T]) Drop(ctx context.Context) error {
	if err := c.docs.Delete(ctx, c.key); err != nil {
		return &domain.StorageError{Op: "delete", Key: c.key, Err: err}
	}
	return nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, int64, error) {
	doc, err := c.docs.Get(ctx, c.key)
	if err != nil {
		return nil, 0, &domain.StorageError{Op: "read", Key: c.key, Err: err}
	}
	items, err := c.decode(doc.Data)
	if err != nil {
		return nil, 0, &domain.StorageError{Op: "decode", Key: c.key, Err: err}
	}
	return items, doc.Revision, nil
}

// decode reads any known schema version and returns the items in the
// current in-memory shape. Older layouts are upgraded on the next write.
func (c *Collection[T]) decode(data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		items, err := c.legacy(trimmed)
		if err != nil {
			return nil, fmt.Errorf("schema 1: %w", err)
		}
		return items, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if env.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("schema version %d is newer than supported version %d", env.SchemaVersion, SchemaVersion)
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	return env.Items, nil
}

func decodeBareArray[T any](data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

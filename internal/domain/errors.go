package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrGameNotOwned is returned when an operation needs a game that is not
	// in the library.
	ErrGameNotOwned = errors.New("game is not in the library")
	// ErrRevisionConflict means a document changed between read and write.
	ErrRevisionConflict = errors.New("document revision conflict")
)

// NetworkError is a non-2xx answer from the game catalog, or a transport
// failure (StatusCode 0, Err set) before any answer arrived.
type NetworkError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 && e.Err != nil {
		return fmt.Sprintf("API Error: %v", e.Err)
	}
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a catalog payload that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed catalog response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError is a failed read or write of a persisted document.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConflictError rejects an operation that collides with existing state,
// such as lending a game that is already lent.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

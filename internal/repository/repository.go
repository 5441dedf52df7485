package repository

import (
	"context"
	"errors"

	"storefront-library/internal/domain"
)

// ErrNoChange may be returned by a MutateFunc to finish without writing.
var ErrNoChange = errors.New("no change")

// MutateFunc receives the current items and returns the items to persist.
// It can run more than once when a concurrent writer wins the race, so it
// must not have side effects outside its return values.
type MutateFunc[T any] func(items []T) ([]T, error)

// ListRepository is an ordered list persisted as one document.
type ListRepository[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Mutate(ctx context.Context, fn MutateFunc[T]) error
	Drop(ctx context.Context) error
}

type OwnedGameRepository = ListRepository[domain.OwnedGame]

type LentGameRepository = ListRepository[domain.LentGame]

type SharedLibraryRepository = ListRepository[domain.SharedLibrary]

type FavoriteRepository = ListRepository[int]

type RecommendationRepository = ListRepository[domain.Recommendation]

// RecommendationStore hands out the recommendation list of one shared library.
type RecommendationStore interface {
	ForShare(shareID string) RecommendationRepository
}

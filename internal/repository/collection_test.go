package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_EmptyDocument(t *testing.T) {
	c := NewCollection[int](storage.NewMemoryStore(), KeyFavorites, 3)
	items, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCollection_WritesVersionedEnvelope(t *testing.T) {
	docs := storage.NewMemoryStore()
	c := NewCollection[int](docs, KeyFavorites, 3)
	ctx := context.Background()

	require.NoError(t, c.Mutate(ctx, func(items []int) ([]int, error) {
		return append(items, 5, 9), nil
	}))

	doc, err := docs.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `{"schema_version":2,"items":[5,9]}`, string(doc.Data))

	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 9}, items)
}

func TestCollection_MigratesLegacyArray(t *testing.T) {
	docs := storage.NewMemoryStore()
	ctx := context.Background()
	legacy := `[{"id":"8b7c","gameId":3498,"friendName":"Sam","email":"sam@example.com","lendDate":"2026-01-01T00:00:00.000Z","expiryDate":"2026-01-08T00:00:00.000Z","duration":7}]`
	_, err := docs.Put(ctx, KeyLentGames, []byte(legacy), 0)
	require.NoError(t, err)

	c := NewCollection[domain.LentGame](docs, KeyLentGames, 3)
	items, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sam", items[0].FriendName)
	assert.Equal(t, 3498, items[0].GameID)
	assert.Equal(t, 7*24*time.Hour, items[0].ExpiryDate.Sub(items[0].LendDate))

	// The next write upgrades the document.
	require.NoError(t, c.Mutate(ctx, func(items []domain.LentGame) ([]domain.LentGame, error) {
		return items, nil
	}))
	doc, err := docs.Get(ctx, KeyLentGames)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), `"schema_version":2`)
}

func TestCollection_MigratesLegacyRecommendations(t *testing.T) {
	docs := storage.NewMemoryStore()
	ctx := context.Background()
	key := KeyRecommendationsPrefix + "abc"
	_, err := docs.Put(ctx, key, []byte(`[{"gameId":1700000000000,"gameName":"Celeste","recommendedBy":"Ana","date":"2026-01-01T00:00:00Z"}]`), 0)
	require.NoError(t, err)

	recs, err := NewStore(docs, 3).ForShare("abc").Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "1700000000000", recs[0].ID)
	assert.Equal(t, "Celeste", recs[0].GameName)
}

func TestCollection_RejectsNewerSchema(t *testing.T) {
	docs := storage.NewMemoryStore()
	ctx := context.Background()
	_, err := docs.Put(ctx, KeyFavorites, []byte(`{"schema_version":99,"items":[]}`), 0)
	require.NoError(t, err)

	_, err = NewCollection[int](docs, KeyFavorites, 3).Load(ctx)
	var se *domain.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "decode", se.Op)
}

func TestCollection_NoChangeSkipsWrite(t *testing.T) {
	docs := storage.NewMemoryStore()
	c := NewCollection[int](docs, KeyFavorites, 3)
	ctx := context.Background()

	require.NoError(t, c.Mutate(ctx, func([]int) ([]int, error) { return nil, ErrNoChange }))
	doc, err := docs.Get(ctx, KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, int64(0), doc.Revision)
}

func TestCollection_MutateErrorPropagates(t *testing.T) {
	c := NewCollection[int](storage.NewMemoryStore(), KeyFavorites, 3)
	boom := errors.New("boom")
	err := c.Mutate(context.Background(), func([]int) ([]int, error) { return nil, boom })
	assert.Equal(t, boom, err)
}

// racingStore lets another writer win the first conflicts CAS attempts.
type racingStore struct {
	*storage.MemoryStore
	conflicts int
}

func (r *racingStore) Put(ctx context.Context, key string, data []byte, expected int64) (int64, error) {
	if r.conflicts > 0 {
		r.conflicts--
		if _, err := r.MemoryStore.Put(ctx, key, []byte(`{"schema_version":2,"items":[100]}`), expected); err != nil {
			return 0, err
		}
		return 0, domain.ErrRevisionConflict
	}
	return r.MemoryStore.Put(ctx, key, data, expected)
}

func TestCollection_RetriesOnConflict(t *testing.T) {
	t.Run("RebasesOnConcurrentWrite", func(t *testing.T) {
		docs := &racingStore{MemoryStore: storage.NewMemoryStore(), conflicts: 2}
		c := NewCollection[int](docs, KeyFavorites, 5)
		calls := 0

		err := c.Mutate(context.Background(), func(items []int) ([]int, error) {
			calls++
			return append(items, 1), nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)

		items, err := c.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int{100, 1}, items)
	})

	t.Run("GivesUpAfterRetries", func(t *testing.T) {
		docs := &racingStore{MemoryStore: storage.NewMemoryStore(), conflicts: 10}
		c := NewCollection[int](docs, KeyFavorites, 2)

		err := c.Mutate(context.Background(), func(items []int) ([]int, error) {
			return append(items, 1), nil
		})
		var se *domain.StorageError
		require.True(t, errors.As(err, &se))
		assert.True(t, errors.Is(err, domain.ErrRevisionConflict))
	})
}

func TestCollection_ConcurrentMutationsAreNotLost(t *testing.T) {
	c := NewCollection[int](storage.NewMemoryStore(), KeyFavorites, 50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, c.Mutate(ctx, func(items []int) ([]int, error) {
				return append(items, n), nil
			}))
		}(i)
	}
	wg.Wait()

	items, err := c.Load(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, items)
}

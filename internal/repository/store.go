package repository

import (
	"encoding/json"
	"strconv"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/storage"
)

// Document keys, kept identical to the browser storefront so exported data
// can be imported as-is.
const (
	KeyPurchases             = "epicGamesPurchases"
	KeyLentGames             = "epicGamesLentGames"
	KeySharedLibraries       = "epicGamesSharedLibraries"
	KeyFavorites             = "epicGamesFavorites"
	KeyRecommendationsPrefix = "epicGamesRecommendations_"

	// KeyLendReminders has no browser counterpart; it holds one
	// "<lend id>@<expiry>" marker per expiry reminder already sent.
	KeyLendReminders = "lendExpiryReminders"
)

// Store groups every repository over one document store.
type Store struct {
	docs      storage.DocumentStore
	retries   int
	Owned     OwnedGameRepository
	Lent      LentGameRepository
	Shared    SharedLibraryRepository
	Favorites FavoriteRepository
	Reminders ListRepository[string]
}

func NewStore(docs storage.DocumentStore, retries int) *Store {
	return &Store{
		docs:      docs,
		retries:   retries,
		Owned:     NewCollection[domain.OwnedGame](docs, KeyPurchases, retries),
		Lent:      NewCollection[domain.LentGame](docs, KeyLentGames, retries),
		Shared:    NewCollection[domain.SharedLibrary](docs, KeySharedLibraries, retries),
		Favorites: NewCollection[int](docs, KeyFavorites, retries),
		Reminders: NewCollection[string](docs, KeyLendReminders, retries),
	}
}

func (s *Store) ForShare(shareID string) RecommendationRepository {
	return NewCollection[domain.Recommendation](s.docs, KeyRecommendationsPrefix+shareID, s.retries).
		withLegacyDecoder(decodeLegacyRecommendations)
}

func (s *Store) Close() error {
	return s.docs.Close()
}

// legacyRecommendation is the browser layout, which used a millisecond
// timestamp in gameId as the record id.
type legacyRecommendation struct {
	GameID        int64     `json:"gameId"`
	GameName      string    `json:"gameName"`
	RecommendedBy string    `json:"recommendedBy"`
	Date          time.Time `json:"date"`
}

func decodeLegacyRecommendations(data []byte) ([]domain.Recommendation, error) {
	var legacy []legacyRecommendation
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	out := make([]domain.Recommendation, 0, len(legacy))
	for _, r := range legacy {
		out = append(out, domain.Recommendation{
			ID:            strconv.FormatInt(r.GameID, 10),
			GameName:      r.GameName,
			RecommendedBy: r.RecommendedBy,
			Date:          r.Date,
		})
	}
	return out, nil
}

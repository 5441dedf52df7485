package service

import (
	"context"
	"time"

	"storefront-library/internal/domain"
)

// Clock returns the current time. Services take one so lend expiry can be
// tested without sleeping.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func orSystemClock(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return func() time.Time { return c().UTC() }
}

// CatalogService is the read side of the game catalog (*catalog.Client).
type CatalogService interface {
	GetTopRatedGames(ctx context.Context, pageSize int) ([]domain.Game, error)
	GetGameDetails(ctx context.Context, id int) (*domain.Game, error)
	SearchGames(ctx context.Context, query string, pageSize int) ([]domain.Game, error)
	GetNewGames(ctx context.Context, pageSize int) ([]domain.Game, error)
	GetUpcomingGames(ctx context.Context, pageSize int) ([]domain.Game, error)
	GetGamesByGenre(ctx context.Context, genreID, pageSize int) ([]domain.Game, error)
	GetGenres(ctx context.Context) ([]domain.Genre, error)
	GetGameScreenshots(ctx context.Context, id int) ([]domain.Screenshot, error)
	GetGameTrailers(ctx context.Context, id int) ([]domain.Trailer, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Game, error)
}

type LibraryService interface {
	AddOwnedGame(ctx context.Context, game domain.Game) (*domain.OwnedGame, error)
	IsOwned(ctx context.Context, gameID int) (bool, error)
	GetOwned(ctx context.Context, gameID int) (*domain.OwnedGame, error)
	ListOwned(ctx context.Context) ([]domain.OwnedGame, error)
	ListLibrary(ctx context.Context, filter domain.GameFilter) (*domain.LibraryView, error)
	ToggleFavorite(ctx context.Context, gameID int) (bool, error) // returns the new state
	SetFavorite(ctx context.Context, gameID int, favorite bool) error
	ListFavorites(ctx context.Context) ([]int, error)
}

type LendingService interface {
	Lend(ctx context.Context, gameID int, friendName, email string, durationDays int) (*domain.LentGame, error)
	Extend(ctx context.Context, lentID string, additionalDays int) (*domain.LentGame, error)
	Revoke(ctx context.Context, lentID string) error
	IsCurrentlyLent(ctx context.Context, gameID int) (bool, error)
	ListLent(ctx context.Context) ([]domain.LentGameView, error)
	ListExpiringWithin(ctx context.Context, window time.Duration) ([]domain.LentGame, error)
	ListExpired(ctx context.Context) ([]domain.LentGame, error)
}

type SharingService interface {
	CreateShare(ctx context.Context, title string, gameIDs []int) (*domain.SharedLibrary, error)
	GetShare(ctx context.Context, id string) (*domain.SharedLibrary, error)
	DeleteShare(ctx context.Context, id string) error
	ListShares(ctx context.Context) ([]domain.SharedLibrary, error)
	BrowseShare(ctx context.Context, id string, filter domain.GameFilter) (*domain.SharedLibraryView, error)
	Recommend(ctx context.Context, shareID, gameName, visitorName string) (*domain.Recommendation, error)
	ListRecommendations(ctx context.Context, shareID string) ([]domain.Recommendation, error)
}

type CheckoutService interface {
	Purchase(ctx context.Context, gameID int) (*domain.PurchaseOrder, error)
}

type EmailService interface {
	// Borrower notifications
	SendLendNotification(ctx context.Context, email, friendName, gameTitle string, expiry time.Time, days int) error
	SendLendExtendedNotification(ctx context.Context, email, friendName, gameTitle string, expiry time.Time) error
	SendLendRevokedNotification(ctx context.Context, email, friendName, gameTitle string) error
	SendLendExpiryReminder(ctx context.Context, email, friendName, gameTitle string, expiry time.Time) error
}

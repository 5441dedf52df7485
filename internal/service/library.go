package service

import (
	"context"
	"errors"
	"slices"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository"
)

type libraryService struct {
	ownedRepo    repository.OwnedGameRepository
	favoriteRepo repository.FavoriteRepository
	now          Clock
}

func NewLibraryService(
	ownedRepo repository.OwnedGameRepository,
	favoriteRepo repository.FavoriteRepository,
	clock Clock,
) LibraryService {
	return &libraryService{
		ownedRepo:    ownedRepo,
		favoriteRepo: favoriteRepo,
		now:          orSystemClock(clock),
	}
}

// AddOwnedGame appends game to the library. Adding a game that is already
// owned returns the existing record unchanged.
func (s *libraryService) AddOwnedGame(ctx context.Context, game domain.Game) (*domain.OwnedGame, error) {
	logger.EnterMethod("libraryService.AddOwnedGame", "gameID", game.ID)

	var result domain.OwnedGame
	err := s.ownedRepo.Mutate(ctx, func(items []domain.OwnedGame) ([]domain.OwnedGame, error) {
		for _, o := range items {
			if o.ID == game.ID {
				result = o
				return nil, repository.ErrNoChange
			}
		}
		result = domain.OwnedGame{Game: game, PurchasedAt: s.now()}
		return append(items, result), nil
	})
	if err != nil {
		logger.ExitMethodWithError("libraryService.AddOwnedGame", err, "gameID", game.ID)
		return nil, err
	}

	logger.ExitMethod("libraryService.AddOwnedGame", "gameID", game.ID, "purchasedAt", result.PurchasedAt)
	return &result, nil
}

func (s *libraryService) IsOwned(ctx context.Context, gameID int) (bool, error) {
	_, err := s.GetOwned(ctx, gameID)
	if errors.Is(err, domain.ErrGameNotOwned) {
		return false, nil
	}
	return err == nil, err
}

func (s *libraryService) GetOwned(ctx context.Context, gameID int) (*domain.OwnedGame, error) {
	items, err := s.ownedRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == gameID {
			return &items[i], nil
		}
	}
	return nil, domain.ErrGameNotOwned
}

// ListOwned returns owned games in the order they were added.
func (s *libraryService) ListOwned(ctx context.Context) ([]domain.OwnedGame, error) {
	return s.ownedRepo.Load(ctx)
}

func (s *libraryService) ListLibrary(ctx context.Context, filter domain.GameFilter) (*domain.LibraryView, error) {
	logger.EnterMethod("libraryService.ListLibrary", "filter", filter)

	owned, err := s.ownedRepo.Load(ctx)
	if err != nil {
		logger.ExitMethodWithError("libraryService.ListLibrary", err)
		return nil, err
	}
	favorites, err := s.favoriteRepo.Load(ctx)
	if err != nil {
		logger.ExitMethodWithError("libraryService.ListLibrary", err)
		return nil, err
	}

	favSet := make(map[int]bool, len(favorites))
	for _, id := range favorites {
		favSet[id] = true
	}

	displays := make([]domain.GameDisplay, 0, len(owned))
	for _, o := range owned {
		displays = append(displays, o.Display())
	}

	games := filter.Apply(displays, favSet)
	view := &domain.LibraryView{
		Total:     len(displays),
		Games:     games,
		Favorites: favorites,
		Facets:    domain.BuildFacets(displays),
	}

	logger.ExitMethod("libraryService.ListLibrary", "total", view.Total, "matched", len(games))
	return view, nil
}

func (s *libraryService) ToggleFavorite(ctx context.Context, gameID int) (bool, error) {
	if _, err := s.GetOwned(ctx, gameID); err != nil {
		return false, err
	}

	var favorite bool
	err := s.favoriteRepo.Mutate(ctx, func(items []int) ([]int, error) {
		if i := slices.Index(items, gameID); i >= 0 {
			favorite = false
			return slices.Delete(slices.Clone(items), i, i+1), nil
		}
		favorite = true
		return append(items, gameID), nil
	})
	if err != nil {
		return false, err
	}
	logger.Info("Favorite toggled", "gameID", gameID, "favorite", favorite)
	return favorite, nil
}

// SetFavorite is the idempotent form of ToggleFavorite.
func (s *libraryService) SetFavorite(ctx context.Context, gameID int, favorite bool) error {
	if favorite {
		if _, err := s.GetOwned(ctx, gameID); err != nil {
			return err
		}
	}
	return s.favoriteRepo.Mutate(ctx, func(items []int) ([]int, error) {
		i := slices.Index(items, gameID)
		switch {
		case favorite && i < 0:
			return append(items, gameID), nil
		case !favorite && i >= 0:
			return slices.Delete(slices.Clone(items), i, i+1), nil
		default:
			return nil, repository.ErrNoChange
		}
	})
}

func (s *libraryService) ListFavorites(ctx context.Context) ([]int, error) {
	return s.favoriteRepo.Load(ctx)
}

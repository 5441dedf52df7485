package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository"
)

const maxShareTitleLength = 50

type sharingService struct {
	shareRepo repository.SharedLibraryRepository
	recRepos  repository.RecommendationStore
	library   LibraryService
	now       Clock
}

func NewSharingService(
	shareRepo repository.SharedLibraryRepository,
	recRepos repository.RecommendationStore,
	library LibraryService,
	clock Clock,
) SharingService {
	return &sharingService{
		shareRepo: shareRepo,
		recRepos:  recRepos,
		library:   library,
		now:       orSystemClock(clock),
	}
}

// CreateShare snapshots the selected owned games under a fresh id.
func (s *sharingService) CreateShare(ctx context.Context, title string, gameIDs []int) (*domain.SharedLibrary, error) {
	logger.EnterMethod("sharingService.CreateShare", "title", title, "games", len(gameIDs))

	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultShareTitle
	}
	if utf8.RuneCountInString(title) > maxShareTitleLength {
		err := &domain.ValidationError{Field: "title", Reason: fmt.Sprintf("must be at most %d characters", maxShareTitleLength)}
		logger.ExitMethodWithWarning("sharingService.CreateShare", err)
		return nil, err
	}
	if len(gameIDs) == 0 {
		err := &domain.ValidationError{Field: "games", Reason: "select at least one game to share"}
		logger.ExitMethodWithWarning("sharingService.CreateShare", err)
		return nil, err
	}

	owned, err := s.library.ListOwned(ctx)
	if err != nil {
		logger.ExitMethodWithError("sharingService.CreateShare", err)
		return nil, err
	}
	byID := make(map[int]domain.OwnedGame, len(owned))
	for _, o := range owned {
		byID[o.ID] = o
	}

	seen := make(map[int]bool, len(gameIDs))
	games := make([]domain.GameDisplay, 0, len(gameIDs))
	for _, id := range gameIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		o, ok := byID[id]
		if !ok {
			err := &domain.ValidationError{Field: "games", Reason: fmt.Sprintf("game %d is not in the library", id)}
			logger.ExitMethodWithWarning("sharingService.CreateShare", err)
			return nil, err
		}
		games = append(games, o.Display())
	}

	share := domain.SharedLibrary{
		ID:        uuid.NewString(),
		Title:     title,
		Games:     games,
		CreatedAt: s.now(),
	}
	err = s.shareRepo.Mutate(ctx, func(items []domain.SharedLibrary) ([]domain.SharedLibrary, error) {
		return append(items, share), nil
	})
	if err != nil {
		logger.ExitMethodWithError("sharingService.CreateShare", err)
		return nil, err
	}

	logger.ExitMethod("sharingService.CreateShare", "shareID", share.ID, "games", len(games))
	return &share, nil
}

func (s *sharingService) GetShare(ctx context.Context, id string) (*domain.SharedLibrary, error) {
	items, err := s.shareRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "shared library", ID: id}
}

// DeleteShare removes the share and its recommendations. Unknown ids are
// ignored.
func (s *sharingService) DeleteShare(ctx context.Context, id string) error {
	logger.EnterMethod("sharingService.DeleteShare", "shareID", id)

	err := s.shareRepo.Mutate(ctx, func(items []domain.SharedLibrary) ([]domain.SharedLibrary, error) {
		next := make([]domain.SharedLibrary, 0, len(items))
		for _, sh := range items {
			if sh.ID != id {
				next = append(next, sh)
			}
		}
		if len(next) == len(items) {
			return nil, repository.ErrNoChange
		}
		return next, nil
	})
	if err != nil {
		logger.ExitMethodWithError("sharingService.DeleteShare", err, "shareID", id)
		return err
	}

	if err := s.recRepos.ForShare(id).Drop(ctx); err != nil {
		logger.Warn("Failed to drop recommendations of deleted share", "shareID", id, "error", err)
	}

	logger.ExitMethod("sharingService.DeleteShare", "shareID", id)
	return nil
}

func (s *sharingService) ListShares(ctx context.Context) ([]domain.SharedLibrary, error) {
	return s.shareRepo.Load(ctx)
}

// BrowseShare is the visitor view of a share. Facets always cover the whole
// snapshot so a visitor can switch filters freely.
func (s *sharingService) BrowseShare(ctx context.Context, id string, filter domain.GameFilter) (*domain.SharedLibraryView, error) {
	share, err := s.GetShare(ctx, id)
	if err != nil {
		return nil, err
	}
	// Favorites belong to the owner, not to visitors.
	filter.Status = ""
	return &domain.SharedLibraryView{
		ID:        share.ID,
		Title:     share.Title,
		CreatedAt: share.CreatedAt,
		Total:     len(share.Games),
		Games:     filter.Apply(share.Games, nil),
		Facets:    domain.BuildFacets(share.Games),
	}, nil
}

func (s *sharingService) Recommend(ctx context.Context, shareID, gameName, visitorName string) (*domain.Recommendation, error) {
	logger.EnterMethod("sharingService.Recommend", "shareID", shareID)

	gameName = strings.TrimSpace(gameName)
	visitorName = strings.TrimSpace(visitorName)
	if gameName == "" {
		return nil, &domain.ValidationError{Field: "gameName", Reason: "game name is required"}
	}
	if visitorName == "" {
		return nil, &domain.ValidationError{Field: "recommendedBy", Reason: "your name is required"}
	}
	if _, err := s.GetShare(ctx, shareID); err != nil {
		logger.ExitMethodWithWarning("sharingService.Recommend", err, "shareID", shareID)
		return nil, err
	}

	rec := domain.Recommendation{
		ID:            uuid.NewString(),
		GameName:      gameName,
		RecommendedBy: visitorName,
		Date:          s.now(),
	}
	err := s.recRepos.ForShare(shareID).Mutate(ctx, func(items []domain.Recommendation) ([]domain.Recommendation, error) {
		return append(items, rec), nil
	})
	if err != nil {
		logger.ExitMethodWithError("sharingService.Recommend", err, "shareID", shareID)
		return nil, err
	}

	logger.ExitMethod("sharingService.Recommend", "shareID", shareID, "recommendationID", rec.ID)
	return &rec, nil
}

func (s *sharingService) ListRecommendations(ctx context.Context, shareID string) ([]domain.Recommendation, error) {
	if _, err := s.GetShare(ctx, shareID); err != nil {
		return nil, err
	}
	return s.recRepos.ForShare(shareID).Load(ctx)
}

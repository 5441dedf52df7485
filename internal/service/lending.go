package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
	"storefront-library/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LendingLimits bounds lend durations in days.
type LendingLimits struct {
	MaxDurationDays int // longest single lend
	MaxTotalDays    int // longest lend after extensions
}

type lendingService struct {
	lentRepo repository.LentGameRepository
	library  LibraryService
	emailSvc EmailService
	limits   LendingLimits
	now      Clock
}

func NewLendingService(
	lentRepo repository.LentGameRepository,
	library LibraryService,
	emailSvc EmailService,
	limits LendingLimits,
	clock Clock,
) LendingService {
	return &lendingService{
		lentRepo: lentRepo,
		library:  library,
		emailSvc: emailSvc,
		limits:   limits,
		now:      orSystemClock(clock),
	}
}

func (s *lendingService) validateLend(friendName, email string, days int) error {
	if friendName == "" {
		return &domain.ValidationError{Field: "friendName", Reason: "friend's name is required"}
	}
	if !emailPattern.MatchString(email) {
		return &domain.ValidationError{Field: "email", Reason: "a valid email address is required"}
	}
	if days < 1 || days > s.limits.MaxDurationDays {
		return &domain.ValidationError{Field: "duration", Reason: fmt.Sprintf("duration must be between 1 and %d days", s.limits.MaxDurationDays)}
	}
	return nil
}

// Lend records that gameID is lent to a friend for durationDays. A game can
// have at most one active lend. Lending a game that is not owned returns
// ErrGameNotOwned instead of silently doing nothing.
func (s *lendingService) Lend(ctx context.Context, gameID int, friendName, email string, durationDays int) (*domain.LentGame, error) {
	logger.EnterMethod("lendingService.Lend", "gameID", gameID, "duration", durationDays)

	friendName = strings.TrimSpace(friendName)
	email = strings.TrimSpace(email)
	if err := s.validateLend(friendName, email, durationDays); err != nil {
		logger.ExitMethodWithWarning("lendingService.Lend", err, "gameID", gameID)
		return nil, err
	}

	owned, err := s.library.GetOwned(ctx, gameID)
	if err != nil {
		logger.ExitMethodWithWarning("lendingService.Lend", err, "gameID", gameID)
		return nil, err
	}

	now := s.now()
	lent := domain.LentGame{
		ID:         uuid.NewString(),
		GameID:     gameID,
		FriendName: friendName,
		Email:      email,
		LendDate:   now,
		ExpiryDate: now.AddDate(0, 0, durationDays),
		Duration:   durationDays,
	}

	err = s.lentRepo.Mutate(ctx, func(items []domain.LentGame) ([]domain.LentGame, error) {
		for _, l := range items {
			if l.GameID == gameID && l.IsActive(now) {
				return nil, &domain.ConflictError{Reason: fmt.Sprintf("%s is already lent to %s", owned.Name, l.FriendName)}
			}
		}
		return append(items, lent), nil
	})
	if err != nil {
		logger.ExitMethodWithError("lendingService.Lend", err, "gameID", gameID)
		return nil, err
	}

	if err := s.emailSvc.SendLendNotification(ctx, lent.Email, lent.FriendName, owned.Name, lent.ExpiryDate, lent.Duration); err != nil {
		logger.Warn("Failed to send lend notification", "lentID", lent.ID, "error", err)
	}

	logger.ExitMethod("lendingService.Lend", "lentID", lent.ID, "expiry", lent.ExpiryDate)
	return &lent, nil
}

// Extend moves the expiry and the duration forward by additionalDays. The
// lend date never changes.
func (s *lendingService) Extend(ctx context.Context, lentID string, additionalDays int) (*domain.LentGame, error) {
	logger.EnterMethod("lendingService.Extend", "lentID", lentID, "additionalDays", additionalDays)

	if additionalDays < 1 {
		err := &domain.ValidationError{Field: "additionalDays", Reason: "must be at least 1 day"}
		logger.ExitMethodWithWarning("lendingService.Extend", err, "lentID", lentID)
		return nil, err
	}

	var updated domain.LentGame
	err := s.lentRepo.Mutate(ctx, func(items []domain.LentGame) ([]domain.LentGame, error) {
		next := make([]domain.LentGame, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID != lentID {
				continue
			}
			// Compared as headroom so huge inputs cannot overflow the sum.
			if additionalDays > s.limits.MaxTotalDays-next[i].Duration {
				return nil, &domain.ValidationError{
					Field:  "additionalDays",
					Reason: fmt.Sprintf("total lend duration may not exceed %d days (currently %d)", s.limits.MaxTotalDays, next[i].Duration),
				}
			}
			next[i].ExpiryDate = next[i].ExpiryDate.AddDate(0, 0, additionalDays)
			next[i].Duration += additionalDays
			updated = next[i]
			return next, nil
		}
		return nil, &domain.NotFoundError{Resource: "lend", ID: lentID}
	})
	if err != nil {
		logger.ExitMethodWithWarning("lendingService.Extend", err, "lentID", lentID)
		return nil, err
	}

	if err := s.emailSvc.SendLendExtendedNotification(ctx, updated.Email, updated.FriendName, s.gameTitle(ctx, updated.GameID), updated.ExpiryDate); err != nil {
		logger.Warn("Failed to send lend extension notification", "lentID", lentID, "error", err)
	}

	logger.ExitMethod("lendingService.Extend", "lentID", lentID, "expiry", updated.ExpiryDate, "duration", updated.Duration)
	return &updated, nil
}

// Revoke removes the lend record. Unknown ids are ignored.
func (s *lendingService) Revoke(ctx context.Context, lentID string) error {
	logger.EnterMethod("lendingService.Revoke", "lentID", lentID)

	var removed *domain.LentGame
	err := s.lentRepo.Mutate(ctx, func(items []domain.LentGame) ([]domain.LentGame, error) {
		removed = nil
		next := make([]domain.LentGame, 0, len(items))
		for _, l := range items {
			if l.ID == lentID {
				removed = &l
				continue
			}
			next = append(next, l)
		}
		if removed == nil {
			return nil, repository.ErrNoChange
		}
		return next, nil
	})
	if err != nil {
		logger.ExitMethodWithError("lendingService.Revoke", err, "lentID", lentID)
		return err
	}

	if removed != nil {
		if err := s.emailSvc.SendLendRevokedNotification(ctx, removed.Email, removed.FriendName, s.gameTitle(ctx, removed.GameID)); err != nil {
			logger.Warn("Failed to send lend revoked notification", "lentID", lentID, "error", err)
		}
	}

	logger.ExitMethod("lendingService.Revoke", "lentID", lentID, "removed", removed != nil)
	return nil
}

func (s *lendingService) IsCurrentlyLent(ctx context.Context, gameID int) (bool, error) {
	items, err := s.lentRepo.Load(ctx)
	if err != nil {
		return false, err
	}
	now := s.now()
	for _, l := range items {
		if l.GameID == gameID && l.IsActive(now) {
			return true, nil
		}
	}
	return false, nil
}

// ListLent returns every lend record, expired ones included, joined with
// the display form of the game.
func (s *lendingService) ListLent(ctx context.Context) ([]domain.LentGameView, error) {
	items, err := s.lentRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := s.library.ListOwned(ctx)
	if err != nil {
		return nil, err
	}

	displays := make(map[int]domain.GameDisplay, len(owned))
	for _, o := range owned {
		displays[o.ID] = o.Display()
	}

	now := s.now()
	views := make([]domain.LentGameView, 0, len(items))
	for _, l := range items {
		v := domain.LentGameView{
			LentGame:      l,
			Expired:       !l.IsActive(now),
			DaysRemaining: l.DaysRemaining(now),
		}
		if d, ok := displays[l.GameID]; ok {
			v.Game = &d
		}
		views = append(views, v)
	}
	return views, nil
}

// ListExpiringWithin returns active lends whose expiry falls inside window.
func (s *lendingService) ListExpiringWithin(ctx context.Context, window time.Duration) ([]domain.LentGame, error) {
	items, err := s.lentRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	deadline := now.Add(window)
	var out []domain.LentGame
	for _, l := range items {
		if l.IsActive(now) && !l.ExpiryDate.After(deadline) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *lendingService) ListExpired(ctx context.Context) ([]domain.LentGame, error) {
	items, err := s.lentRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var out []domain.LentGame
	for _, l := range items {
		if !l.IsActive(now) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *lendingService) gameTitle(ctx context.Context, gameID int) string {
	if g, err := s.library.GetOwned(ctx, gameID); err == nil {
		return g.Name
	}
	return fmt.Sprintf("game #%d", gameID)
}

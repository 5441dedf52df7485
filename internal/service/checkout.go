package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
)

type checkoutService struct {
	catalog         CatalogService
	library         LibraryService
	placingDelay    time.Duration
	processingDelay time.Duration
	now             Clock
}

func NewCheckoutService(
	catalog CatalogService,
	library LibraryService,
	placingDelay, processingDelay time.Duration,
	clock Clock,
) CheckoutService {
	return &checkoutService{
		catalog:         catalog,
		library:         library,
		placingDelay:    placingDelay,
		processingDelay: processingDelay,
		now:             orSystemClock(clock),
	}
}

// Purchase runs the simulated checkout: the order is placed, processed and
// confirmed, and only then is the game added to the library. No payment is
// taken.
func (s *checkoutService) Purchase(ctx context.Context, gameID int) (*domain.PurchaseOrder, error) {
	logger.EnterMethod("checkoutService.Purchase", "gameID", gameID)

	owned, err := s.library.IsOwned(ctx, gameID)
	if err != nil {
		logger.ExitMethodWithError("checkoutService.Purchase", err, "gameID", gameID)
		return nil, err
	}
	if owned {
		err := &domain.ConflictError{Reason: "game is already in your library"}
		logger.ExitMethodWithWarning("checkoutService.Purchase", err, "gameID", gameID)
		return nil, err
	}

	game, err := s.catalog.GetGameDetails(ctx, gameID)
	if err != nil {
		logger.ExitMethodWithError("checkoutService.Purchase", err, "gameID", gameID)
		return nil, err
	}

	order := &domain.PurchaseOrder{
		OrderNumber: newOrderNumber(),
		Game:        domain.ToDisplay(*game),
		State:       domain.PurchaseStateCheckout,
		CreatedAt:   s.now(),
	}

	if err := wait(ctx, s.placingDelay); err != nil {
		logger.ExitMethodWithWarning("checkoutService.Purchase", err, "orderNumber", order.OrderNumber)
		return nil, err
	}
	order.State = domain.PurchaseStateProcessing
	logger.Debug("Order processing", "orderNumber", order.OrderNumber)

	if err := wait(ctx, s.processingDelay); err != nil {
		logger.ExitMethodWithWarning("checkoutService.Purchase", err, "orderNumber", order.OrderNumber)
		return nil, err
	}

	if _, err := s.library.AddOwnedGame(ctx, *game); err != nil {
		logger.ExitMethodWithError("checkoutService.Purchase", err, "orderNumber", order.OrderNumber)
		return nil, err
	}

	completed := s.now()
	order.State = domain.PurchaseStateConfirmation
	order.CompletedAt = &completed

	logger.ExitMethod("checkoutService.Purchase", "orderNumber", order.OrderNumber, "gameID", gameID)
	return order, nil
}

// newOrderNumber returns "F" followed by 16 digits.
func newOrderNumber() string {
	return fmt.Sprintf("F%d", 1_000_000_000_000_000+rand.Int64N(9_000_000_000_000_000))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

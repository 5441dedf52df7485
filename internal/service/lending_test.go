package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-library/internal/domain"
	"storefront-library/internal/repository"
	"storefront-library/internal/service"
)

type lendingFixture struct {
	store   *repository.Store
	clock   *testClock
	email   *MockEmailService
	library service.LibraryService
	svc     service.LendingService
}

func newLendingFixture(t *testing.T) *lendingFixture {
	t.Helper()
	f := &lendingFixture{
		store: newTestStore(),
		clock: newTestClock(),
		email: new(MockEmailService),
	}
	f.library = service.NewLibraryService(f.store.Owned, f.store.Favorites, f.clock.Now)
	f.svc = service.NewLendingService(f.store.Lent, f.library, f.email,
		service.LendingLimits{MaxDurationDays: 30, MaxTotalDays: 30}, f.clock.Now)

	ctx := context.Background()
	_, err := f.library.AddOwnedGame(ctx, game(42, "Hades", "Action", "PC"))
	require.NoError(t, err)
	_, err = f.library.AddOwnedGame(ctx, game(7, "Celeste", "Platformer", "PC"))
	require.NoError(t, err)
	return f
}

func TestLendingService_Lend(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newLendingFixture(t)
		start := f.clock.Now()
		f.email.On("SendLendNotification", mock.Anything, "sam@example.com", "Sam", "Hades", start.AddDate(0, 0, 7), 7).Return(nil)

		lent, err := f.svc.Lend(ctx, 42, "  Sam ", "sam@example.com", 7)
		require.NoError(t, err)
		assert.NotEmpty(t, lent.ID)
		assert.Equal(t, "Sam", lent.FriendName)
		assert.Equal(t, start, lent.LendDate)
		assert.Equal(t, start.AddDate(0, 0, 7), lent.ExpiryDate)
		assert.Equal(t, 7, lent.Duration)

		active, err := f.svc.IsCurrentlyLent(ctx, 42)
		require.NoError(t, err)
		assert.True(t, active)
		f.email.AssertExpectations(t)
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		f := newLendingFixture(t)
		tests := []struct {
			name   string
			friend string
			email  string
			days   int
			field  string
		}{
			{"EmptyName", "  ", "sam@example.com", 7, "friendName"},
			{"BadEmail", "Sam", "sam-at-example", 7, "email"},
			{"EmailWithSpace", "Sam", "sam @example.com", 7, "email"},
			{"ZeroDays", "Sam", "sam@example.com", 0, "duration"},
			{"TooManyDays", "Sam", "sam@example.com", 31, "duration"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.svc.Lend(ctx, 42, tt.friend, tt.email, tt.days)
				var vErr *domain.ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.field, vErr.Field)
			})
		}

		lent, err := f.store.Lent.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, lent)
		f.email.AssertNotCalled(t, "SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BoundaryDurations", func(t *testing.T) {
		f := newLendingFixture(t)
		f.email.On("SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Lend(ctx, 42, "Sam", "sam@example.com", 1)
		require.NoError(t, err)
		_, err = f.svc.Lend(ctx, 7, "Sam", "sam@example.com", 30)
		require.NoError(t, err)
	})

	t.Run("NotOwned", func(t *testing.T) {
		f := newLendingFixture(t)
		_, err := f.svc.Lend(ctx, 999, "Sam", "sam@example.com", 7)
		assert.True(t, errors.Is(err, domain.ErrGameNotOwned))
	})

	t.Run("AlreadyLent", func(t *testing.T) {
		f := newLendingFixture(t)
		f.email.On("SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := f.svc.Lend(ctx, 42, "Sam", "sam@example.com", 3)
		require.NoError(t, err)

		_, err = f.svc.Lend(ctx, 42, "Alex", "alex@example.com", 3)
		var conflict *domain.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Contains(t, conflict.Error(), "Sam")

		// Once the first lend expires the game can be lent again.
		f.clock.Advance(3*24*time.Hour + time.Second)
		_, err = f.svc.Lend(ctx, 42, "Alex", "alex@example.com", 3)
		require.NoError(t, err)
	})

	t.Run("EmailFailureIsNotFatal", func(t *testing.T) {
		f := newLendingFixture(t)
		f.email.On("SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))

		lent, err := f.svc.Lend(ctx, 42, "Sam", "sam@example.com", 7)
		require.NoError(t, err)
		assert.NotNil(t, lent)
	})
}

func TestLendingService_Extend(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, days int) (*lendingFixture, *domain.LentGame) {
		f := newLendingFixture(t)
		f.email.On("SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		lent, err := f.svc.Lend(ctx, 42, "Sam", "sam@example.com", days)
		require.NoError(t, err)
		return f, lent
	}

	t.Run("Success", func(t *testing.T) {
		f, lent := setup(t, 7)
		want := lent.ExpiryDate.AddDate(0, 0, 5)
		f.email.On("SendLendExtendedNotification", mock.Anything, "sam@example.com", "Sam", "Hades", want).Return(nil)

		updated, err := f.svc.Extend(ctx, lent.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, want, updated.ExpiryDate)
		assert.Equal(t, 12, updated.Duration)
		assert.Equal(t, lent.LendDate, updated.LendDate)
		assert.Equal(t, updated.LendDate.AddDate(0, 0, updated.Duration), updated.ExpiryDate)
		f.email.AssertExpectations(t)
	})

	t.Run("ExpiredLendCanBeExtended", func(t *testing.T) {
		f, lent := setup(t, 2)
		f.email.On("SendLendExtendedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.clock.Advance(5 * 24 * time.Hour)

		updated, err := f.svc.Extend(ctx, lent.ID, 7)
		require.NoError(t, err)
		assert.True(t, updated.IsActive(f.clock.Now()))
	})

	t.Run("ExceedsTotal", func(t *testing.T) {
		f, lent := setup(t, 25)
		_, err := f.svc.Extend(ctx, lent.ID, 6)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "additionalDays", vErr.Field)

		stored, err := f.store.Lent.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 25, stored[0].Duration)
	})

	t.Run("HugeExtensionRejected", func(t *testing.T) {
		f, lent := setup(t, 7)
		_, err := f.svc.Extend(ctx, lent.ID, math.MaxInt-3)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "additionalDays", vErr.Field)

		stored, err := f.store.Lent.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, stored[0].Duration)
		assert.Equal(t, lent.ExpiryDate, stored[0].ExpiryDate)
	})

	t.Run("ExactlyAtTotal", func(t *testing.T) {
		f, lent := setup(t, 25)
		f.email.On("SendLendExtendedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		updated, err := f.svc.Extend(ctx, lent.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 30, updated.Duration)
	})

	t.Run("InvalidDays", func(t *testing.T) {
		f, lent := setup(t, 7)
		_, err := f.svc.Extend(ctx, lent.ID, 0)
		var vErr *domain.ValidationError
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("UnknownLend", func(t *testing.T) {
		f, _ := setup(t, 7)
		_, err := f.svc.Extend(ctx, "missing", 1)
		var nf *domain.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestLendingService_Revoke(t *testing.T) {
	ctx := context.Background()
	f := newLendingFixture(t)
	f.email.On("SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.email.On("SendLendRevokedNotification", mock.Anything, "sam@example.com", "Sam", "Hades").Return(nil).Once()

	lent, err := f.svc.Lend(ctx, 42, "Sam", "sam@example.com", 7)
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(ctx, lent.ID))
	active, err := f.svc.IsCurrentlyLent(ctx, 42)
	require.NoError(t, err)
	assert.False(t, active)

	// Revoking again is a no-op and sends nothing.
	require.NoError(t, f.svc.Revoke(ctx, lent.ID))
	f.email.AssertExpectations(t)
}

func TestLendingService_Listings(t *testing.T) {
	ctx := context.Background()
	f := newLendingFixture(t)
	f.email.On("SendLendNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	short, err := f.svc.Lend(ctx, 42, "Sam", "sam@example.com", 1)
	require.NoError(t, err)
	long, err := f.svc.Lend(ctx, 7, "Alex", "alex@example.com", 10)
	require.NoError(t, err)

	t.Run("ExpiringWithin", func(t *testing.T) {
		expiring, err := f.svc.ListExpiringWithin(ctx, 24*time.Hour)
		require.NoError(t, err)
		require.Len(t, expiring, 1)
		assert.Equal(t, short.ID, expiring[0].ID)
	})

	f.clock.Advance(36 * time.Hour)

	t.Run("ListLent", func(t *testing.T) {
		views, err := f.svc.ListLent(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)

		assert.Equal(t, short.ID, views[0].ID)
		assert.True(t, views[0].Expired)
		assert.Equal(t, 0, views[0].DaysRemaining)
		require.NotNil(t, views[0].Game)
		assert.Equal(t, "Hades", views[0].Game.Title)

		assert.Equal(t, long.ID, views[1].ID)
		assert.False(t, views[1].Expired)
		assert.Equal(t, 9, views[1].DaysRemaining)
	})

	t.Run("ListExpired", func(t *testing.T) {
		expired, err := f.svc.ListExpired(ctx)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, short.ID, expired[0].ID)

		active, err := f.svc.IsCurrentlyLent(ctx, 42)
		require.NoError(t, err)
		assert.False(t, active)
	})
}

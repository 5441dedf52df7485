package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"storefront-library/internal/domain"
	"storefront-library/internal/repository"
	"storefront-library/internal/service"
	"storefront-library/internal/storage"
)

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLendNotification(ctx context.Context, email, friendName, gameTitle string, expiry time.Time, days int) error {
	args := m.Called(ctx, email, friendName, gameTitle, expiry, days)
	return args.Error(0)
}
func (m *MockEmailService) SendLendExtendedNotification(ctx context.Context, email, friendName, gameTitle string, expiry time.Time) error {
	args := m.Called(ctx, email, friendName, gameTitle, expiry)
	return args.Error(0)
}
func (m *MockEmailService) SendLendRevokedNotification(ctx context.Context, email, friendName, gameTitle string) error {
	args := m.Called(ctx, email, friendName, gameTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendLendExpiryReminder(ctx context.Context, email, friendName, gameTitle string, expiry time.Time) error {
	args := m.Called(ctx, email, friendName, gameTitle, expiry)
	return args.Error(0)
}

// MockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) games(args mock.Arguments) ([]domain.Game, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Game), args.Error(1)
}
func (m *MockCatalog) GetTopRatedGames(ctx context.Context, pageSize int) ([]domain.Game, error) {
	return m.games(m.Called(ctx, pageSize))
}
func (m *MockCatalog) GetGameDetails(ctx context.Context, id int) (*domain.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}
func (m *MockCatalog) SearchGames(ctx context.Context, query string, pageSize int) ([]domain.Game, error) {
	return m.games(m.Called(ctx, query, pageSize))
}
func (m *MockCatalog) GetNewGames(ctx context.Context, pageSize int) ([]domain.Game, error) {
	return m.games(m.Called(ctx, pageSize))
}
func (m *MockCatalog) GetUpcomingGames(ctx context.Context, pageSize int) ([]domain.Game, error) {
	return m.games(m.Called(ctx, pageSize))
}
func (m *MockCatalog) GetGamesByGenre(ctx context.Context, genreID, pageSize int) ([]domain.Game, error) {
	return m.games(m.Called(ctx, genreID, pageSize))
}
func (m *MockCatalog) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Genre), args.Error(1)
}
func (m *MockCatalog) GetGameScreenshots(ctx context.Context, id int) ([]domain.Screenshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Screenshot), args.Error(1)
}
func (m *MockCatalog) GetGameTrailers(ctx context.Context, id int) ([]domain.Trailer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Trailer), args.Error(1)
}
func (m *MockCatalog) FindBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg service.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() *repository.Store {
	return repository.NewStore(storage.NewMemoryStore(), 5)
}

func game(id int, name, genre, platform string) domain.Game {
	g := domain.Game{ID: id, Slug: name, Name: name}
	if genre != "" {
		g.Genres = []domain.Genre{{ID: id, Name: genre}}
	}
	if platform != "" {
		g.Platforms = []domain.PlatformEntry{{Platform: domain.Platform{ID: id, Name: platform}}}
	}
	return g
}

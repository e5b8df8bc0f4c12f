package service

import (
	"context"

	"stayfinder/internal/api"
	"stayfinder/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockMarketplace struct {
	mock.Mock
}

func (m *mockMarketplace) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *mockMarketplace) Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *mockMarketplace) Listings(ctx context.Context, token string, filter api.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, token, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *mockMarketplace) Listing(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *mockMarketplace) CreateListing(ctx context.Context, token string, listing *models.Listing) error {
	return m.Called(ctx, token, listing).Error(0)
}

func (m *mockMarketplace) UpdateListing(ctx context.Context, token string, listing *models.Listing) error {
	return m.Called(ctx, token, listing).Error(0)
}

func (m *mockMarketplace) DeleteListing(ctx context.Context, token, id string) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *mockMarketplace) CreateReservation(ctx context.Context, token string, req models.ReservationRequest) (*models.Reservation, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockMarketplace) Reservations(ctx context.Context, token string) ([]models.Reservation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Restore(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockSessionStore) Establish(ctx context.Context, chatID int64, token string, identity models.Identity) error {
	return m.Called(ctx, chatID, token, identity).Error(0)
}

func (m *mockSessionStore) Clear(ctx context.Context, chatID int64) error {
	return m.Called(ctx, chatID).Error(0)
}

func (m *mockSessionStore) Get(chatID int64) *models.Session {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Session)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

type mockSyncWorker struct {
	mock.Mock
}

func (m *mockSyncWorker) EnqueueReservation(ctx context.Context, res *models.Reservation) error {
	return m.Called(ctx, res).Error(0)
}

func (m *mockSyncWorker) EnqueueListingsRefresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func userSession(role models.Role) *models.Session {
	return &models.Session{
		ChatID:   42,
		Token:    "tok",
		Identity: models.Identity{ID: "u1", Email: "u1@example.com", Role: role},
	}
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"humanity-verse-backend/database"
	"humanity-verse-backend/models"
)

// Store est un mock de database.Store
type Store struct {
	mock.Mock
}

var _ database.Store = (*Store)(nil)

func (m *Store) FindActiveMedia(ctx context.Context, kind models.MediaKind) (*database.MediaResult, error) {
	args := m.Called(ctx, kind)
	if res, ok := args.Get(0).(*database.MediaResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) InsertMedia(ctx context.Context, item *models.MediaItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *Store) FindLegacyMedia(ctx context.Context, kind models.MediaKind) (*database.MediaResult, error) {
	args := m.Called(ctx, kind)
	if res, ok := args.Get(0).(*database.MediaResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) DeactivateMedia(ctx context.Context, kind models.MediaKind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *Store) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	args := m.Called(ctx)
	if stats, ok := args.Get(0).(*models.Statistics); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) SetStatistics(ctx context.Context, stats models.Statistics) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *Store) SaveDonation(ctx context.Context, donation *models.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *Store) UpdateDonationStatus(ctx context.Context, txRef, status, transactionID string) error {
	args := m.Called(ctx, txRef, status, transactionID)
	return args.Error(0)
}

func (m *Store) FindDonation(ctx context.Context, txRef string) (*models.Donation, error) {
	args := m.Called(ctx, txRef)
	if d, ok := args.Get(0).(*models.Donation); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) FindAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	args := m.Called(ctx, email)
	if admin, ok := args.Get(0).(*models.AdminUser); ok {
		return admin, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateAdmin(ctx context.Context, admin *models.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *Store) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}

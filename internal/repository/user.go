package repository

import (
	"context"

	"greencycle/internal/domain"
)

// UserRepository defines the persistence operations for users.
// Balance fields are adjusted only through AdjustBalances, and only the
// ledger calls it.
type UserRepository interface {
	// Create adds a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// AdjustBalances atomically applies deltas to a user's GreenCoins and
	// EcoScore. Returns ErrConflict if the adjustment would drive the
	// GreenCoins balance below zero.
	AdjustBalances(ctx context.Context, id string, coinsDelta, ecoScoreDelta int64) error
}

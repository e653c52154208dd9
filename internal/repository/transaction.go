package repository

import (
	"context"

	"greencycle/internal/domain"
)

// TransactionRepository defines the persistence operations for ledger
// entries. The ledger is append-only: there is no update or delete.
type TransactionRepository interface {
	// Create appends a new ledger entry. Returns ErrDuplicateEntry when the
	// entry would be the second pickup transaction for the same request.
	Create(ctx context.Context, tx *domain.Transaction) error

	// GetByID retrieves a ledger entry by ID.
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// ListByUser retrieves all entries for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error)

	// GetPickupByRequestID retrieves the pickup entry for a request.
	// Returns nil if the request has no pickup entry yet.
	GetPickupByRequestID(ctx context.Context, requestID string) (*domain.Transaction, error)

	// GetAll retrieves all ledger entries, newest first.
	GetAll(ctx context.Context) ([]*domain.Transaction, error)
}

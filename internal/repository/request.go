package repository

import (
	"context"
	"time"

	"greencycle/internal/domain"
)

// RequestRepository defines the persistence operations for waste requests.
//
// Every status transition is a conditional update whose WHERE clause encodes
// the legal source states. Implementations must apply each transition as a
// single atomic write (compare-and-swap), never as a read followed by a
// write, and report ErrConflict when the precondition did not hold.
type RequestRepository interface {
	// Create persists a new request.
	Create(ctx context.Context, req *domain.WasteRequest) error

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (*domain.WasteRequest, error)

	// ListByStatus retrieves requests in the given status, oldest first.
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.WasteRequest, error)

	// ListByOwner retrieves requests created by the given owner.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.WasteRequest, error)

	// ListByCollector retrieves requests claimed by the given collector.
	ListByCollector(ctx context.Context, collectorID string) ([]*domain.WasteRequest, error)

	// GetAll retrieves all requests, newest first.
	GetAll(ctx context.Context) ([]*domain.WasteRequest, error)

	// ClaimPending atomically binds a collector to a PENDING request:
	// status becomes ASSIGNED and the collector and scheduled date are set,
	// iff the request is still PENDING. Returns ErrConflict if the request
	// exists but is no longer PENDING, ErrNotFound if it does not exist.
	ClaimPending(ctx context.Context, id, collectorID string, scheduledDate time.Time) error

	// MarkCollected atomically moves an ASSIGNED request claimed by the
	// given collector to COLLECTED. Returns ErrConflict otherwise.
	MarkCollected(ctx context.Context, id, collectorID string) error

	// CompleteClaimed atomically moves a request claimed by the given
	// collector from ASSIGNED or COLLECTED to COMPLETED, recording the
	// actual value, earned coins and completion time. Returns ErrConflict
	// if the request is not in a completable state for that collector.
	CompleteClaimed(ctx context.Context, id, collectorID string, actualValue float64, coinsEarned int64, completedAt time.Time) error

	// CancelPending atomically moves a PENDING request to CANCELLED.
	// Returns ErrConflict if the request is no longer PENDING.
	CancelPending(ctx context.Context, id string, cancelledAt time.Time) error
}

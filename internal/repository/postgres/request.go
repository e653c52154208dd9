package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"greencycle/internal/domain"
	"greencycle/internal/repository"
)

const requestColumns = `id, owner_id, waste_type, quantity_kg, estimated_value, estimated_green_coins,
		actual_value, green_coins_earned, address, lat, lng, preferred_time, scheduled_date,
		status, collector_id, completed_at, cancelled_at, created_at`

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

// Create persists a new request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.WasteRequest) error {
	query := `
		INSERT INTO waste_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.OwnerID,
		req.WasteType,
		req.QuantityKg,
		req.EstimatedValue,
		req.EstimatedGreenCoins,
		req.ActualValue,
		req.GreenCoinsEarned,
		req.Address,
		req.Lat,
		req.Lng,
		req.PreferredTime,
		req.ScheduledDate,
		req.Status,
		req.CollectorID,
		req.CompletedAt,
		req.CancelledAt,
		req.CreatedAt,
	)

	return err
}

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.WasteRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM waste_requests WHERE id = $1`

	req, err := scanRequest(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListByStatus retrieves requests in the given status, oldest first.
func (r *RequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.WasteRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM waste_requests WHERE status = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, status)
}

// ListByOwner retrieves requests created by the given owner, newest first.
func (r *RequestRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.WasteRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM waste_requests WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, ownerID)
}

// ListByCollector retrieves requests claimed by the given collector, newest first.
func (r *RequestRepository) ListByCollector(ctx context.Context, collectorID string) ([]*domain.WasteRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM waste_requests WHERE collector_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, collectorID)
}

// GetAll retrieves all requests, newest first.
func (r *RequestRepository) GetAll(ctx context.Context) ([]*domain.WasteRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM waste_requests ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ClaimPending atomically binds a collector to a PENDING request. The WHERE
// clause carries the precondition, so two concurrent claims can never both
// match the row.
func (r *RequestRepository) ClaimPending(ctx context.Context, id, collectorID string, scheduledDate time.Time) error {
	query := `
		UPDATE waste_requests
		SET status = $1, collector_id = $2, scheduled_date = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusAssigned,
		collectorID,
		scheduledDate,
		id,
		domain.RequestStatusPending,
	)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, id)
}

// MarkCollected atomically moves an ASSIGNED request to COLLECTED, provided
// the caller is the assigned collector.
func (r *RequestRepository) MarkCollected(ctx context.Context, id, collectorID string) error {
	query := `
		UPDATE waste_requests
		SET status = $1
		WHERE id = $2 AND status = $3 AND collector_id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusCollected,
		id,
		domain.RequestStatusAssigned,
		collectorID,
	)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, id)
}

// CompleteClaimed atomically moves a claimed request to COMPLETED and records
// the actuals.
func (r *RequestRepository) CompleteClaimed(ctx context.Context, id, collectorID string, actualValue float64, coinsEarned int64, completedAt time.Time) error {
	query := `
		UPDATE waste_requests
		SET status = $1, actual_value = $2, green_coins_earned = $3, completed_at = $4
		WHERE id = $5 AND collector_id = $6 AND status IN ($7, $8)
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusCompleted,
		actualValue,
		coinsEarned,
		completedAt,
		id,
		collectorID,
		domain.RequestStatusAssigned,
		domain.RequestStatusCollected,
	)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, id)
}

// CancelPending atomically moves a PENDING request to CANCELLED.
func (r *RequestRepository) CancelPending(ctx context.Context, id string, cancelledAt time.Time) error {
	query := `
		UPDATE waste_requests
		SET status = $1, cancelled_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RequestStatusCancelled,
		cancelledAt,
		id,
		domain.RequestStatusPending,
	)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, id)
}

// checkAffected distinguishes a lost precondition from a missing row after a
// conditional update matched nothing.
func (r *RequestRepository) checkAffected(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM waste_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.WasteRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.WasteRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.WasteRequest, error) {
	var req domain.WasteRequest
	err := row.Scan(
		&req.ID,
		&req.OwnerID,
		&req.WasteType,
		&req.QuantityKg,
		&req.EstimatedValue,
		&req.EstimatedGreenCoins,
		&req.ActualValue,
		&req.GreenCoinsEarned,
		&req.Address,
		&req.Lat,
		&req.Lng,
		&req.PreferredTime,
		&req.ScheduledDate,
		&req.Status,
		&req.CollectorID,
		&req.CompletedAt,
		&req.CancelledAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

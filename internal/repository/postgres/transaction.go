package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"greencycle/internal/domain"
	"greencycle/internal/repository"
)

const transactionColumns = `id, user_id, collector_id, related_request_id, kind,
		monetary_amount, green_coins, description, created_at`

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations, raised by the partial unique index on pickup entries.
const uniqueViolation = "23505"

// TransactionRepository is a PostgreSQL implementation of
// repository.TransactionRepository. The transactions table is append-only;
// this type deliberately has no update or delete methods.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a new ledger entry.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.CollectorID,
		t.RelatedRequestID,
		t.Kind,
		t.MonetaryAmount,
		t.GreenCoins,
		t.Description,
		t.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateEntry
		}
		return err
	}

	return nil
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByUser retrieves all entries for a user, newest first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// GetPickupByRequestID retrieves the pickup entry for a request, or nil if
// none exists.
func (r *TransactionRepository) GetPickupByRequestID(ctx context.Context, requestID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE related_request_id = $1 AND kind = $2`

	t, err := scanTransaction(r.q.QueryRowContext(ctx, query, requestID, domain.TransactionKindPickup))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// GetAll retrieves all ledger entries, newest first.
func (r *TransactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.CollectorID,
		&t.RelatedRequestID,
		&t.Kind,
		&t.MonetaryAmount,
		&t.GreenCoins,
		&t.Description,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

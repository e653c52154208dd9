package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"greencycle/internal/repository"
)

// TxManager implements repository.TxManager on top of *sql.DB.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn inside a single database transaction, committing iff fn
// returns nil.
func (m *TxManager) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&boundTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// boundTx exposes transaction-scoped repositories sharing one *sql.Tx.
type boundTx struct {
	tx *sql.Tx
}

func (b *boundTx) Requests() repository.RequestRepository {
	return NewRequestRepositoryWithTx(b.tx)
}

func (b *boundTx) Transactions() repository.TransactionRepository {
	return NewTransactionRepositoryWithTx(b.tx)
}

func (b *boundTx) Users() repository.UserRepository {
	return NewUserRepositoryWithTx(b.tx)
}

var _ repository.TxManager = (*TxManager)(nil)

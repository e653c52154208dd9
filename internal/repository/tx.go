package repository

import "context"

// Tx exposes transaction-scoped repositories. All writes made through a Tx
// commit or roll back together.
type Tx interface {
	Requests() RequestRepository
	Transactions() TransactionRepository
	Users() UserRepository
}

// TxManager runs a function inside a single storage transaction. It is the
// unit of work behind operations that must not be observably separable, such
// as completing a pickup and writing its ledger entry.
type TxManager interface {
	// WithinTx starts a transaction, calls fn with transaction-scoped
	// repositories, and commits iff fn returns nil.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

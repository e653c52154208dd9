package domain

import "time"

// TransactionKind represents the category of a ledger entry.
type TransactionKind string

const (
	TransactionKindPickup      TransactionKind = "pickup"
	TransactionKindPurchase    TransactionKind = "purchase"
	TransactionKindReward      TransactionKind = "reward"
	TransactionKindPenalty     TransactionKind = "penalty"
	TransactionKindWithdrawal  TransactionKind = "withdrawal"
	TransactionKindPlatformFee TransactionKind = "platform_fee"
)

// ValidTransactionKind reports whether k is a known ledger entry kind.
func ValidTransactionKind(k TransactionKind) bool {
	switch k {
	case TransactionKindPickup, TransactionKindPurchase, TransactionKindReward,
		TransactionKindPenalty, TransactionKindWithdrawal, TransactionKindPlatformFee:
		return true
	}
	return false
}

// Transaction is one immutable ledger entry. Entries are append-only: they
// are created once by the ledger and never updated or deleted. Balances must
// always reconcile to the sum of a user's entries.
type Transaction struct {
	ID               string
	UserID           string
	CollectorID      *string
	RelatedRequestID *string
	Kind             TransactionKind
	MonetaryAmount   float64
	GreenCoins       int64
	Description      string
	CreatedAt        time.Time
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"greencycle/internal/domain"
	"greencycle/internal/repository"
)

// LedgerService owns the append-only transaction log and the user balance
// fields derived from it. Every write couples "append entry" with "adjust
// balances" inside one storage transaction, so a reader can never observe a
// balance without its entry or an entry without its balance.
type LedgerService struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	txManager repository.TxManager,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
) *LedgerService {
	return &LedgerService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
	}
}

// RecordEntryRequest contains the parameters for recording a ledger entry.
type RecordEntryRequest struct {
	UserID           string
	ActorID          string // who is asking; must be an admin for reward/penalty
	Kind             domain.TransactionKind
	MonetaryAmount   float64
	GreenCoins       int64
	Description      string
	CollectorID      *string
	RelatedRequestID *string
	EcoScoreDelta    int64
}

// Record appends a ledger entry and adjusts the target user's balances
// atomically. Reward and penalty entries require an admin actor; pickup
// entries are written only by the lifecycle service through RecordInTx.
func (s *LedgerService) Record(ctx context.Context, req RecordEntryRequest) (*domain.Transaction, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if !domain.ValidTransactionKind(req.Kind) {
		return nil, ErrInvalidKind
	}
	if req.Kind == domain.TransactionKindPickup {
		// Pickup entries exist only as part of completing a request.
		return nil, ErrInvalidKind
	}
	if req.MonetaryAmount == 0 && req.GreenCoins == 0 {
		return nil, ErrInvalidAmount
	}

	if req.Kind == domain.TransactionKindReward || req.Kind == domain.TransactionKindPenalty {
		actor, err := s.userRepo.GetByID(ctx, req.ActorID)
		if err != nil {
			return nil, err
		}
		if actor.Role != domain.RoleAdmin {
			return nil, ErrForbidden
		}
	}

	entry := &domain.Transaction{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		CollectorID:      req.CollectorID,
		RelatedRequestID: req.RelatedRequestID,
		Kind:             req.Kind,
		MonetaryAmount:   req.MonetaryAmount,
		GreenCoins:       req.GreenCoins,
		Description:      req.Description,
		CreatedAt:        time.Now(),
	}

	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		return s.RecordInTx(ctx, tx, entry, req.EcoScoreDelta)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Withdraw records a withdrawal entry spending coins from a user's balance.
func (s *LedgerService) Withdraw(ctx context.Context, userID string, coins int64, description string) (*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if coins <= 0 {
		return nil, ErrInvalidAmount
	}

	return s.Record(ctx, RecordEntryRequest{
		UserID:      userID,
		ActorID:     userID,
		Kind:        domain.TransactionKindWithdrawal,
		GreenCoins:  -coins,
		Description: description,
	})
}

// RecordInTx appends the entry and adjusts the user's balances inside an
// already-open storage transaction. Callers own commit and rollback.
func (s *LedgerService) RecordInTx(ctx context.Context, tx repository.Tx, entry *domain.Transaction, ecoScoreDelta int64) error {
	if err := tx.Transactions().Create(ctx, entry); err != nil {
		return err
	}

	if err := tx.Users().AdjustBalances(ctx, entry.UserID, entry.GreenCoins, ecoScoreDelta); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("adjust balances for user %s: %w", entry.UserID, err)
	}

	return nil
}

// History returns all ledger entries for a user, newest first.
func (s *LedgerService) History(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.transactionRepo.ListByUser(ctx, userID)
}

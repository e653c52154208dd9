package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"greencycle/internal/domain"
	"greencycle/internal/repository"
	"greencycle/internal/service"
)

// ──────────────────────────────────────────────
// 3. LEDGER AND BALANCES
// ──────────────────────────────────────────────

func newLedgerService(transactions *MockTransactionRepository, users *MockUserRepository) (*service.LedgerService, *MockTxManager) {
	txManager := NewMockTxManager(NewMockRequestRepository(), transactions, users)
	return service.NewLedgerService(txManager, transactions, users), txManager
}

func TestLedger_BalanceReconcilesToEntrySum(t *testing.T) {
	t.Parallel()

	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser})
	userRepo.AddUser(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	ledger, _ := newLedgerService(transactionRepo, userRepo)

	credits := []int64{100, 40, 25}
	for _, coins := range credits {
		_, err := ledger.Record(context.Background(), service.RecordEntryRequest{
			UserID:      "user-1",
			ActorID:     "admin-1",
			Kind:        domain.TransactionKindReward,
			GreenCoins:  coins,
			Description: "community drive bonus",
		})
		if err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	if _, err := ledger.Withdraw(context.Background(), "user-1", 60, "voucher redemption"); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	entries, err := ledger.History(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var sum int64
	for _, e := range entries {
		sum += e.GreenCoins
	}

	user := userRepo.GetUser("user-1")
	if user.GreenCoins != sum {
		t.Errorf("stored balance %d does not reconcile to entry sum %d", user.GreenCoins, sum)
	}
	if user.GreenCoins != 105 {
		t.Errorf("expected balance 105, got %d", user.GreenCoins)
	}
}

func TestLedger_WithdrawInsufficientBalance(t *testing.T) {
	t.Parallel()

	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser, GreenCoins: 50})

	ledger, _ := newLedgerService(transactionRepo, userRepo)

	_, err := ledger.Withdraw(context.Background(), "user-1", 80, "voucher redemption")
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// The rejected withdrawal must leave neither an entry nor a debit.
	if transactionRepo.CountEntries() != 0 {
		t.Errorf("expected no entries after rejection, got %d", transactionRepo.CountEntries())
	}
	if user := userRepo.GetUser("user-1"); user.GreenCoins != 50 {
		t.Errorf("expected balance unchanged at 50, got %d", user.GreenCoins)
	}

	// Withdrawing a non-positive amount never reaches the store.
	if _, err := ledger.Withdraw(context.Background(), "user-1", 0, ""); !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestLedger_RewardAndPenaltyRequireAdmin(t *testing.T) {
	t.Parallel()

	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser, GreenCoins: 100})
	userRepo.AddUser(&domain.User{ID: "collector-1", Role: domain.RoleCollector})
	userRepo.AddUser(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	ledger, _ := newLedgerService(transactionRepo, userRepo)

	for _, actor := range []string{"user-1", "collector-1"} {
		_, err := ledger.Record(context.Background(), service.RecordEntryRequest{
			UserID:     "user-1",
			ActorID:    actor,
			Kind:       domain.TransactionKindReward,
			GreenCoins: 1000,
		})
		if !errors.Is(err, service.ErrForbidden) {
			t.Errorf("actor %s: expected ErrForbidden, got %v", actor, err)
		}
	}

	entry, err := ledger.Record(context.Background(), service.RecordEntryRequest{
		UserID:      "user-1",
		ActorID:     "admin-1",
		Kind:        domain.TransactionKindPenalty,
		GreenCoins:  -30,
		Description: "contaminated batch",
	})
	if err != nil {
		t.Fatalf("admin penalty failed: %v", err)
	}
	if entry.Kind != domain.TransactionKindPenalty {
		t.Errorf("expected penalty entry, got %s", entry.Kind)
	}
	if user := userRepo.GetUser("user-1"); user.GreenCoins != 70 {
		t.Errorf("expected balance 70 after penalty, got %d", user.GreenCoins)
	}
}

func TestLedger_PickupKindOnlyViaCompletion(t *testing.T) {
	t.Parallel()

	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	ledger, _ := newLedgerService(transactionRepo, userRepo)

	_, err := ledger.Record(context.Background(), service.RecordEntryRequest{
		UserID:     "admin-1",
		ActorID:    "admin-1",
		Kind:       domain.TransactionKindPickup,
		GreenCoins: 10,
	})
	if !errors.Is(err, service.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind for direct pickup entry, got %v", err)
	}
}

func TestLedger_DuplicatePickupEntryRejectedAtomically(t *testing.T) {
	t.Parallel()

	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser})

	ledger, txManager := newLedgerService(transactionRepo, userRepo)

	requestID := "req-1"
	collectorID := "collector-1"
	entry := func(id string) *domain.Transaction {
		return &domain.Transaction{
			ID:               id,
			UserID:           "user-1",
			CollectorID:      &collectorID,
			RelatedRequestID: &requestID,
			Kind:             domain.TransactionKindPickup,
			MonetaryAmount:   60,
			GreenCoins:       120,
			CreatedAt:        time.Now(),
		}
	}

	err := txManager.WithinTx(context.Background(), func(tx repository.Tx) error {
		return ledger.RecordInTx(context.Background(), tx, entry("tx-1"), 2)
	})
	if err != nil {
		t.Fatalf("first pickup entry failed: %v", err)
	}

	err = txManager.WithinTx(context.Background(), func(tx repository.Tx) error {
		return ledger.RecordInTx(context.Background(), tx, entry("tx-2"), 2)
	})
	if !errors.Is(err, repository.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	if n := transactionRepo.PickupEntryCount(requestID); n != 1 {
		t.Errorf("expected 1 pickup entry, got %d", n)
	}
	// The rolled-back attempt must not have touched the balance.
	if user := userRepo.GetUser("user-1"); user.GreenCoins != 120 || user.EcoScore != 2 {
		t.Errorf("expected balance 120/eco 2, got %d/%d", user.GreenCoins, user.EcoScore)
	}
}

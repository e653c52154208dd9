package tests

import (
	"context"
	"math"
	"testing"
	"time"

	"greencycle/internal/domain"
	"greencycle/internal/service"
)

// ──────────────────────────────────────────────
// 4. DERIVED STATS
// ──────────────────────────────────────────────

func completedRequest(id, ownerID, collectorID string, wasteType domain.WasteType, quantityKg, actualValue float64) *domain.WasteRequest {
	req := pendingRequest(id, ownerID)
	req.WasteType = wasteType
	req.QuantityKg = quantityKg
	req.Status = domain.RequestStatusCompleted
	req.CollectorID = &collectorID
	req.ActualValue = &actualValue
	coins := int64(actualValue * 2)
	req.GreenCoinsEarned = &coins
	now := time.Now()
	req.CompletedAt = &now
	return req
}

func TestWasteTypeBreakdown_PercentagesAndOrdering(t *testing.T) {
	t.Parallel()

	completed := []*domain.WasteRequest{
		completedRequest("r1", "u1", "c1", domain.WasteTypePlastic, 6, 72),
		completedRequest("r2", "u1", "c1", domain.WasteTypePaper, 3, 24),
		completedRequest("r3", "u1", "c1", domain.WasteTypePlastic, 1, 12),
	}

	shares := service.WasteTypeBreakdown(completed)
	if len(shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(shares))
	}

	// Largest quantity first.
	if shares[0].Type != domain.WasteTypePlastic || shares[0].QuantityKg != 7 {
		t.Errorf("expected plastic 7kg first, got %s %vkg", shares[0].Type, shares[0].QuantityKg)
	}
	if shares[0].Percentage != 70.0 {
		t.Errorf("expected 70.0%%, got %v", shares[0].Percentage)
	}
	if shares[1].Percentage != 30.0 {
		t.Errorf("expected 30.0%%, got %v", shares[1].Percentage)
	}

	var total float64
	for _, s := range shares {
		total += s.Percentage
	}
	if math.Abs(total-100) > 0.2 {
		t.Errorf("percentages should sum to ~100, got %v", total)
	}
}

func TestWasteTypeBreakdown_ZeroTotalIsSafe(t *testing.T) {
	t.Parallel()

	if shares := service.WasteTypeBreakdown(nil); len(shares) != 0 {
		t.Errorf("expected empty breakdown, got %d shares", len(shares))
	}

	// Zero-quantity rows must not divide by zero.
	zero := completedRequest("r1", "u1", "c1", domain.WasteTypeGlass, 0, 0)
	shares := service.WasteTypeBreakdown([]*domain.WasteRequest{zero})
	if len(shares) != 1 || shares[0].Percentage != 0 {
		t.Errorf("expected single zero-percentage share, got %+v", shares)
	}
}

func TestTopCollectors_OrderingAndTieBreak(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "collector-a", Name: "Arun", Role: domain.RoleCollector})
	userRepo.AddUser(&domain.User{ID: "collector-b", Name: "Bina", Role: domain.RoleCollector})
	userRepo.AddUser(&domain.User{ID: "collector-c", Name: "Chitra", Role: domain.RoleCollector})

	// b has 3 completions, a and c have 2 each; the tie resolves by id.
	seed := []struct {
		id        string
		collector string
	}{
		{"r1", "collector-b"}, {"r2", "collector-b"}, {"r3", "collector-b"},
		{"r4", "collector-c"}, {"r5", "collector-c"},
		{"r6", "collector-a"}, {"r7", "collector-a"},
	}
	for _, s := range seed {
		requestRepo.AddRequest(completedRequest(s.id, "u1", s.collector, domain.WasteTypeMetal, 2, 60))
	}

	svc := service.NewStatsService(requestRepo, NewMockTransactionRepository(), userRepo, nil)

	ranks, err := svc.TopCollectors(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranks) != 3 {
		t.Fatalf("expected 3 ranks, got %d", len(ranks))
	}

	wantOrder := []string{"collector-b", "collector-a", "collector-c"}
	for i, want := range wantOrder {
		if ranks[i].CollectorID != want {
			t.Errorf("rank %d: expected %s, got %s", i, want, ranks[i].CollectorID)
		}
	}
	if ranks[0].CompletedPickups != 3 || ranks[0].TotalKgCollected != 6 || ranks[0].TotalEarnings != 180 {
		t.Errorf("unexpected leader totals: %+v", ranks[0])
	}
	if ranks[0].Name != "Bina" {
		t.Errorf("expected leader name Bina, got %q", ranks[0].Name)
	}

	// A smaller limit truncates without reordering.
	top2, err := svc.TopCollectors(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top2) != 2 || top2[1].CollectorID != "collector-a" {
		t.Errorf("expected truncated [b a], got %+v", top2)
	}
}

func TestGrowthSeries_ContiguousZeroFilledDays(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	userRepo := NewMockUserRepository()

	day := func(offset int) time.Time {
		return time.Now().UTC().AddDate(0, 0, -offset)
	}

	for i, offset := range []int{2, 2, 0} {
		req := pendingRequest(string(rune('a'+i)), "u1")
		req.CreatedAt = day(offset)
		requestRepo.AddRequest(req)
	}

	svc := service.NewStatsService(requestRepo, NewMockTransactionRepository(), userRepo, nil)

	series, err := svc.GrowthSeries(context.Background(), service.GrowthEntityRequests, day(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("expected 4 day buckets, got %d", len(series))
	}

	wantCounts := []int{0, 2, 0, 1}
	var total int
	for i, bucket := range series {
		if bucket.Count != wantCounts[i] {
			t.Errorf("day %s: expected %d, got %d", bucket.Day, wantCounts[i], bucket.Count)
		}
		total += bucket.Count
	}
	if total != 3 {
		t.Errorf("expected 3 events in window, got %d", total)
	}

	if _, err := svc.GrowthSeries(context.Background(), "sideways", day(3)); err == nil {
		t.Error("expected error for unknown growth entity")
	}
}

func TestUserStats_GreenCoinsDerivedFromLedger(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser, GreenCoins: 90, EcoScore: 4})

	requestRepo.AddRequest(completedRequest("r1", "user-1", "c1", domain.WasteTypePaper, 8, 64))
	requestRepo.AddRequest(pendingRequest("r2", "user-1"))
	cancelled := pendingRequest("r3", "user-1")
	cancelled.Status = domain.RequestStatusCancelled
	requestRepo.AddRequest(cancelled)

	requestID := "r1"
	transactionRepo.AddEntry(&domain.Transaction{
		ID:               "tx-1",
		UserID:           "user-1",
		RelatedRequestID: &requestID,
		Kind:             domain.TransactionKindPickup,
		MonetaryAmount:   64,
		GreenCoins:       128,
		CreatedAt:        time.Now(),
	})
	transactionRepo.AddEntry(&domain.Transaction{
		ID:         "tx-2",
		UserID:     "user-1",
		Kind:       domain.TransactionKindWithdrawal,
		GreenCoins: -38,
		CreatedAt:  time.Now(),
	})

	svc := service.NewStatsService(requestRepo, transactionRepo, userRepo, nil)

	stats, err := svc.UserStats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalRequests != 3 || stats.CompletedRequests != 1 || stats.PendingRequests != 1 || stats.CancelledRequests != 1 {
		t.Errorf("unexpected request counts: %+v", stats)
	}
	if stats.TotalKgRecycled != 8 {
		t.Errorf("expected 8kg recycled, got %v", stats.TotalKgRecycled)
	}
	// Coins come from the ledger sum, earnings from pickup entries only.
	if stats.GreenCoins != 90 {
		t.Errorf("expected ledger-derived coins 90, got %d", stats.GreenCoins)
	}
	if stats.TotalEarned != 64 {
		t.Errorf("expected total earned 64, got %v", stats.TotalEarned)
	}
	if stats.EcoScore != 4 {
		t.Errorf("expected eco score 4, got %d", stats.EcoScore)
	}
}

func TestPlatformStats_AggregatesAcrossRoles(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	transactionRepo := NewMockTransactionRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser})
	userRepo.AddUser(&domain.User{ID: "user-2", Role: domain.RoleUser})
	userRepo.AddUser(&domain.User{ID: "collector-1", Role: domain.RoleCollector})
	userRepo.AddUser(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})

	requestRepo.AddRequest(completedRequest("r1", "user-1", "collector-1", domain.WasteTypeEWaste, 4, 100))
	requestRepo.AddRequest(completedRequest("r2", "user-2", "collector-1", domain.WasteTypeOrganic, 10, 20))
	requestRepo.AddRequest(pendingRequest("r3", "user-1"))

	svc := service.NewStatsService(requestRepo, transactionRepo, userRepo, nil)

	stats, err := svc.PlatformStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalUsers != 2 || stats.TotalCollectors != 1 {
		t.Errorf("expected 2 users / 1 collector, got %d/%d", stats.TotalUsers, stats.TotalCollectors)
	}
	if stats.TotalRequests != 3 || stats.CompletedRequests != 2 || stats.PendingRequests != 1 {
		t.Errorf("unexpected request counts: %+v", stats)
	}
	if stats.TotalKgCollected != 14 || stats.TotalValuePaid != 120 {
		t.Errorf("expected 14kg / 120 paid, got %v/%v", stats.TotalKgCollected, stats.TotalValuePaid)
	}
	if stats.TotalGreenCoinsIssued != 240 {
		t.Errorf("expected 240 coins issued, got %d", stats.TotalGreenCoinsIssued)
	}
	if len(stats.TopCollectors) != 1 || stats.TopCollectors[0].CollectorID != "collector-1" {
		t.Errorf("unexpected top collectors: %+v", stats.TopCollectors)
	}
	if len(stats.Breakdown) != 2 {
		t.Errorf("expected 2 breakdown shares, got %d", len(stats.Breakdown))
	}
}

package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"greencycle/internal/domain"
	"greencycle/internal/redis"
	"greencycle/internal/repository"
)

// StatsService derives reporting aggregates by scanning the request store
// and the ledger. It never mutates either; any cached copy in Redis is a
// short-lived convenience, the append-only history stays authoritative.
type StatsService struct {
	requestRepo     repository.RequestRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	cache           redis.StatsCacheInterface
}

// NewStatsService creates a new StatsService. cache may be nil.
func NewStatsService(
	requestRepo repository.RequestRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	cache redis.StatsCacheInterface,
) *StatsService {
	return &StatsService{
		requestRepo:     requestRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		cache:           cache,
	}
}

// GrowthEntity selects which creation events a growth series buckets.
type GrowthEntity string

const (
	GrowthEntityRequests GrowthEntity = "requests"
	GrowthEntityUsers    GrowthEntity = "users"
)

// DayBucket is one calendar day in a growth series.
type DayBucket struct {
	Day   string `json:"day"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

// WasteTypeShare is one waste type's slice of the completed-pickup total.
type WasteTypeShare struct {
	Type       domain.WasteType `json:"type"`
	QuantityKg float64          `json:"quantity_kg"`
	Percentage float64          `json:"percentage"`
}

// CollectorRank is one leaderboard row.
type CollectorRank struct {
	CollectorID      string  `json:"collector_id"`
	Name             string  `json:"name,omitempty"`
	CompletedPickups int     `json:"completed_pickups"`
	TotalKgCollected float64 `json:"total_kg_collected"`
	TotalEarnings    float64 `json:"total_earnings"`
}

// UserStats is the derived report for one citizen.
type UserStats struct {
	UserID            string           `json:"user_id"`
	TotalRequests     int              `json:"total_requests"`
	CompletedRequests int              `json:"completed_requests"`
	PendingRequests   int              `json:"pending_requests"`
	CancelledRequests int              `json:"cancelled_requests"`
	TotalKgRecycled   float64          `json:"total_kg_recycled"`
	TotalEarned       float64          `json:"total_earned"`
	GreenCoins        int64            `json:"green_coins"`
	EcoScore          int64            `json:"eco_score"`
	Breakdown         []WasteTypeShare `json:"waste_type_breakdown"`
}

// CollectorStats is the derived report for one collector.
type CollectorStats struct {
	CollectorID       string           `json:"collector_id"`
	CompletedPickups  int              `json:"completed_pickups"`
	ActiveAssignments int              `json:"active_assignments"`
	TotalKgCollected  float64          `json:"total_kg_collected"`
	TotalEarnings     float64          `json:"total_earnings"`
	Breakdown         []WasteTypeShare `json:"waste_type_breakdown"`
}

// PlatformStats is the derived report for administrators.
type PlatformStats struct {
	TotalUsers            int              `json:"total_users"`
	TotalCollectors       int              `json:"total_collectors"`
	TotalRequests         int              `json:"total_requests"`
	CompletedRequests     int              `json:"completed_requests"`
	PendingRequests       int              `json:"pending_requests"`
	CancelledRequests     int              `json:"cancelled_requests"`
	TotalKgCollected      float64          `json:"total_kg_collected"`
	TotalValuePaid        float64          `json:"total_value_paid"`
	TotalGreenCoinsIssued int64            `json:"total_green_coins_issued"`
	Breakdown             []WasteTypeShare `json:"waste_type_breakdown"`
	TopCollectors         []CollectorRank  `json:"top_collectors"`
}

// GrowthSeries buckets request or user creation events by UTC calendar day
// within [start, now]. Days without events appear with a zero count so the
// series is contiguous.
func (s *StatsService) GrowthSeries(ctx context.Context, entity GrowthEntity, start time.Time) ([]DayBucket, error) {
	var createdAts []time.Time

	switch entity {
	case GrowthEntityRequests:
		requests, err := s.requestRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range requests {
			createdAts = append(createdAts, r.CreatedAt)
		}
	case GrowthEntityUsers:
		users, err := s.userRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			createdAts = append(createdAts, u.CreatedAt)
		}
	default:
		return nil, ErrInvalidKind
	}

	return bucketByDay(createdAts, start, time.Now()), nil
}

// TopCollectors ranks collectors by completed-pickup count, descending, with
// ties broken by lexically smaller collector id so the ordering is stable.
func (s *StatsService) TopCollectors(ctx context.Context, limit int) ([]CollectorRank, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.cache != nil {
		if data, err := s.cache.GetLeaderboard(ctx); err == nil && data != nil {
			var ranks []CollectorRank
			if json.Unmarshal(data, &ranks) == nil && len(ranks) >= limit {
				return ranks[:limit], nil
			}
		}
	}

	completed, err := s.requestRepo.ListByStatus(ctx, domain.RequestStatusCompleted)
	if err != nil {
		return nil, err
	}

	ranks := rankCollectors(completed)
	s.fillCollectorNames(ctx, ranks)

	if s.cache != nil {
		if data, err := json.Marshal(ranks); err == nil {
			_ = s.cache.SetLeaderboard(ctx, data)
		}
	}

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}

// WasteTypeBreakdown aggregates completed requests into quantity shares per
// waste type. Percentages are rounded to one decimal and are all zero when
// the total quantity is zero.
func WasteTypeBreakdown(completed []*domain.WasteRequest) []WasteTypeShare {
	quantities := make(map[domain.WasteType]float64)
	var total float64
	for _, r := range completed {
		quantities[r.WasteType] += r.QuantityKg
		total += r.QuantityKg
	}

	shares := make([]WasteTypeShare, 0, len(quantities))
	for wt, qty := range quantities {
		share := WasteTypeShare{Type: wt, QuantityKg: qty}
		if total > 0 {
			share.Percentage = math.Round(qty/total*100*10) / 10
		}
		shares = append(shares, share)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].QuantityKg != shares[j].QuantityKg {
			return shares[i].QuantityKg > shares[j].QuantityKg
		}
		return shares[i].Type < shares[j].Type
	})

	return shares
}

// UserStats derives a citizen's report from their requests and ledger
// history. The GreenCoins figure is the sum over the ledger, not the stored
// balance, so drift would show up here immediately.
func (s *StatsService) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.transactionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID:   userID,
		EcoScore: user.EcoScore,
	}

	var completed []*domain.WasteRequest
	for _, r := range requests {
		stats.TotalRequests++
		switch r.Status {
		case domain.RequestStatusCompleted:
			stats.CompletedRequests++
			stats.TotalKgRecycled += r.QuantityKg
			completed = append(completed, r)
		case domain.RequestStatusPending:
			stats.PendingRequests++
		case domain.RequestStatusCancelled:
			stats.CancelledRequests++
		}
	}

	for _, t := range entries {
		stats.GreenCoins += t.GreenCoins
		if t.Kind == domain.TransactionKindPickup {
			stats.TotalEarned += t.MonetaryAmount
		}
	}

	stats.Breakdown = WasteTypeBreakdown(completed)
	return stats, nil
}

// CollectorStats derives a collector's report from their claimed requests.
func (s *StatsService) CollectorStats(ctx context.Context, collectorID string) (*CollectorStats, error) {
	if collectorID == "" {
		return nil, ErrInvalidCollectorID
	}

	if _, err := s.userRepo.GetByID(ctx, collectorID); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByCollector(ctx, collectorID)
	if err != nil {
		return nil, err
	}

	stats := &CollectorStats{CollectorID: collectorID}

	var completed []*domain.WasteRequest
	for _, r := range requests {
		switch r.Status {
		case domain.RequestStatusCompleted:
			stats.CompletedPickups++
			stats.TotalKgCollected += r.QuantityKg
			if r.ActualValue != nil {
				stats.TotalEarnings += *r.ActualValue
			}
			completed = append(completed, r)
		case domain.RequestStatusAssigned, domain.RequestStatusCollected:
			stats.ActiveAssignments++
		}
	}

	stats.Breakdown = WasteTypeBreakdown(completed)
	return stats, nil
}

// PlatformStats derives the administrator report over the whole platform.
func (s *StatsService) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	if s.cache != nil {
		if data, err := s.cache.GetPlatformStats(ctx); err == nil && data != nil {
			var stats PlatformStats
			if json.Unmarshal(data, &stats) == nil {
				return &stats, nil
			}
		}
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{}
	for _, u := range users {
		switch u.Role {
		case domain.RoleCollector:
			stats.TotalCollectors++
		case domain.RoleUser:
			stats.TotalUsers++
		}
	}

	var completed []*domain.WasteRequest
	for _, r := range requests {
		stats.TotalRequests++
		switch r.Status {
		case domain.RequestStatusCompleted:
			stats.CompletedRequests++
			stats.TotalKgCollected += r.QuantityKg
			if r.ActualValue != nil {
				stats.TotalValuePaid += *r.ActualValue
			}
			if r.GreenCoinsEarned != nil {
				stats.TotalGreenCoinsIssued += *r.GreenCoinsEarned
			}
			completed = append(completed, r)
		case domain.RequestStatusPending:
			stats.PendingRequests++
		case domain.RequestStatusCancelled:
			stats.CancelledRequests++
		}
	}

	stats.Breakdown = WasteTypeBreakdown(completed)

	ranks := rankCollectors(completed)
	s.fillCollectorNames(ctx, ranks)
	if len(ranks) > 10 {
		ranks = ranks[:10]
	}
	stats.TopCollectors = ranks

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = s.cache.SetPlatformStats(ctx, data)
		}
	}

	return stats, nil
}

func rankCollectors(completed []*domain.WasteRequest) []CollectorRank {
	byCollector := make(map[string]*CollectorRank)
	for _, r := range completed {
		if r.CollectorID == nil {
			continue
		}
		rank, ok := byCollector[*r.CollectorID]
		if !ok {
			rank = &CollectorRank{CollectorID: *r.CollectorID}
			byCollector[*r.CollectorID] = rank
		}
		rank.CompletedPickups++
		rank.TotalKgCollected += r.QuantityKg
		if r.ActualValue != nil {
			rank.TotalEarnings += *r.ActualValue
		}
	}

	ranks := make([]CollectorRank, 0, len(byCollector))
	for _, rank := range byCollector {
		ranks = append(ranks, *rank)
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].CompletedPickups != ranks[j].CompletedPickups {
			return ranks[i].CompletedPickups > ranks[j].CompletedPickups
		}
		return ranks[i].CollectorID < ranks[j].CollectorID
	})

	return ranks
}

func (s *StatsService) fillCollectorNames(ctx context.Context, ranks []CollectorRank) {
	for i := range ranks {
		if user, err := s.userRepo.GetByID(ctx, ranks[i].CollectorID); err == nil {
			ranks[i].Name = user.Name
		}
	}
}

func bucketByDay(createdAts []time.Time, start, end time.Time) []DayBucket {
	startDay := start.UTC().Truncate(24 * time.Hour)
	endDay := end.UTC().Truncate(24 * time.Hour)
	if endDay.Before(startDay) {
		return nil
	}

	counts := make(map[string]int)
	for _, at := range createdAts {
		day := at.UTC().Truncate(24 * time.Hour)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		counts[day.Format("2006-01-02")]++
	}

	var series []DayBucket
	for day := startDay; !day.After(endDay); day = day.Add(24 * time.Hour) {
		key := day.Format("2006-01-02")
		series = append(series, DayBucket{Day: key, Count: counts[key]})
	}
	return series
}

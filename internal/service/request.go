package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"greencycle/internal/domain"
	"greencycle/internal/pricing"
	"greencycle/internal/repository"
)

// StatsInvalidator invalidates derived-stats caches after a write. A nil
// invalidator disables invalidation.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context) error
}

// RequestService is the lifecycle state machine for waste requests. It is
// the sole writer of request status and collector bindings; all transitions
// go through conditional store updates so concurrent callers cannot both
// win.
type RequestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	ledger      *LedgerService
	txManager   repository.TxManager
	cache       StatsInvalidator
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	ledger *LedgerService,
	txManager repository.TxManager,
	cache StatsInvalidator,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		txManager:   txManager,
		cache:       cache,
	}
}

// CreateRequestRequest contains the parameters for creating a pickup request.
type CreateRequestRequest struct {
	OwnerID       string
	WasteType     domain.WasteType
	QuantityKg    float64
	Address       string
	Lat           float64
	Lng           float64
	PreferredTime string
}

// Create validates the input, computes the estimate once, and persists the
// request in PENDING state.
func (s *RequestService) Create(ctx context.Context, req CreateRequestRequest) (*domain.WasteRequest, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	// Owner must exist; role is irrelevant here, any account may request a
	// pickup.
	if _, err := s.userRepo.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	value, coins, err := pricing.Estimate(req.WasteType, req.QuantityKg)
	if err != nil {
		return nil, ErrInvalidQuantity
	}

	request := &domain.WasteRequest{
		ID:                  uuid.New().String(),
		OwnerID:             req.OwnerID,
		WasteType:           req.WasteType,
		QuantityKg:          req.QuantityKg,
		EstimatedValue:      value,
		EstimatedGreenCoins: coins,
		Address:             req.Address,
		Lat:                 req.Lat,
		Lng:                 req.Lng,
		PreferredTime:       req.PreferredTime,
		Status:              domain.RequestStatusPending,
		CreatedAt:           time.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return request, nil
}

// AcceptRequest contains the parameters for claiming a pending request.
type AcceptRequest struct {
	RequestID     string
	CollectorID   string
	ScheduledDate time.Time
}

// Accept atomically claims a PENDING request for a collector. The claim is a
// single conditional store update; when two collectors race, at most one
// wins and the loser gets ErrAlreadyClaimed, never a silent overwrite.
func (s *RequestService) Accept(ctx context.Context, req AcceptRequest) (*domain.WasteRequest, error) {
	if req.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if req.CollectorID == "" {
		return nil, ErrInvalidCollectorID
	}
	if req.ScheduledDate.IsZero() {
		return nil, ErrInvalidScheduledDate
	}

	collector, err := s.userRepo.GetByID(ctx, req.CollectorID)
	if err != nil {
		return nil, err
	}
	if collector.Role != domain.RoleCollector {
		return nil, ErrForbidden
	}

	err = s.requestRepo.ClaimPending(ctx, req.RequestID, req.CollectorID, req.ScheduledDate)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	s.invalidateStats(ctx)
	return s.requestRepo.GetByID(ctx, req.RequestID)
}

// MarkCollected records that the assigned collector has physically picked up
// the waste. The step is optional: Complete also accepts ASSIGNED requests.
func (s *RequestService) MarkCollected(ctx context.Context, requestID, collectorID string) (*domain.WasteRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if collectorID == "" {
		return nil, ErrInvalidCollectorID
	}

	err := s.requestRepo.MarkCollected(ctx, requestID, collectorID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, s.explainConflict(ctx, requestID, collectorID)
		}
		return nil, err
	}

	return s.requestRepo.GetByID(ctx, requestID)
}

// CompleteRequest contains the parameters for completing a pickup.
type CompleteRequest struct {
	RequestID   string
	CollectorID string

	// ActualValue overrides the stored estimate when the collector reports a
	// corrected value. Nil means the estimate stands.
	ActualValue *float64
}

// Complete finishes a pickup: the request moves to COMPLETED and exactly one
// pickup ledger entry credits the owner's GreenCoins and EcoScore. The
// status change, the ledger entry and the balance update commit in one
// storage transaction; no reader can observe a completed request without its
// entry. A retried completion loses the conditional update and reports
// ErrInvalidTransition without a second entry.
func (s *RequestService) Complete(ctx context.Context, req CompleteRequest) (*domain.WasteRequest, error) {
	if req.RequestID == "" {
		return nil, ErrInvalidRequestID
	}
	if req.CollectorID == "" {
		return nil, ErrInvalidCollectorID
	}
	if req.ActualValue != nil && *req.ActualValue <= 0 {
		return nil, ErrInvalidAmount
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case domain.RequestStatusAssigned, domain.RequestStatusCollected:
		// completable
	default:
		return nil, ErrInvalidTransition
	}
	if request.CollectorID == nil || *request.CollectorID != req.CollectorID {
		return nil, ErrForbidden
	}

	actualValue := request.EstimatedValue
	if req.ActualValue != nil {
		actualValue = *req.ActualValue
	}
	coinsEarned := request.EstimatedGreenCoins
	completedAt := time.Now()

	entry := &domain.Transaction{
		ID:               uuid.New().String(),
		UserID:           request.OwnerID,
		CollectorID:      &req.CollectorID,
		RelatedRequestID: &request.ID,
		Kind:             domain.TransactionKindPickup,
		MonetaryAmount:   actualValue,
		GreenCoins:       coinsEarned,
		Description:      "Pickup completed: " + string(request.WasteType),
		CreatedAt:        completedAt,
	}

	err = s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.Requests().CompleteClaimed(ctx, request.ID, req.CollectorID, actualValue, coinsEarned, completedAt); err != nil {
			return err
		}
		return s.ledger.RecordInTx(ctx, tx, entry, pricing.EcoScoreDelta(request.QuantityKg))
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the completion race; the winner already wrote the entry.
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrDuplicateEntry) {
			// The conditional update succeeded yet a pickup entry already
			// exists. The store has broken the completion invariant; the
			// transaction rolled back, surface it loudly.
			return nil, ErrLedgerConflict
		}
		return nil, err
	}

	s.invalidateStats(ctx)
	return s.requestRepo.GetByID(ctx, request.ID)
}

// Cancel moves a PENDING request to CANCELLED. Only the owner or an admin
// may cancel; claimed pickups cannot be cancelled through this path.
func (s *RequestService) Cancel(ctx context.Context, requestID, requesterID string) (*domain.WasteRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if requesterID == "" {
		return nil, ErrInvalidUserID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.OwnerID != requesterID {
		requester, err := s.userRepo.GetByID(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if requester.Role != domain.RoleAdmin {
			return nil, ErrForbidden
		}
	}

	err = s.requestRepo.CancelPending(ctx, requestID, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.invalidateStats(ctx)
	return s.requestRepo.GetByID(ctx, requestID)
}

// Get retrieves a request by ID.
func (s *RequestService) Get(ctx context.Context, requestID string) (*domain.WasteRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	return s.requestRepo.GetByID(ctx, requestID)
}

// ListPending returns all unclaimed requests, oldest first.
func (s *RequestService) ListPending(ctx context.Context) ([]*domain.WasteRequest, error) {
	return s.requestRepo.ListByStatus(ctx, domain.RequestStatusPending)
}

// ListByOwner returns a citizen's requests.
func (s *RequestService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.WasteRequest, error) {
	if ownerID == "" {
		return nil, ErrInvalidOwnerID
	}
	return s.requestRepo.ListByOwner(ctx, ownerID)
}

// ListByCollector returns a collector's claimed requests.
func (s *RequestService) ListByCollector(ctx context.Context, collectorID string) ([]*domain.WasteRequest, error) {
	if collectorID == "" {
		return nil, ErrInvalidCollectorID
	}
	return s.requestRepo.ListByCollector(ctx, collectorID)
}

// GetAll returns all requests, newest first.
func (s *RequestService) GetAll(ctx context.Context) ([]*domain.WasteRequest, error) {
	return s.requestRepo.GetAll(ctx)
}

func (s *RequestService) validateCreateRequest(req CreateRequestRequest) error {
	if req.OwnerID == "" {
		return ErrInvalidOwnerID
	}
	if req.QuantityKg <= 0 {
		return ErrInvalidQuantity
	}
	if !domain.ValidWasteType(req.WasteType) {
		return ErrInvalidWasteType
	}
	if req.Address == "" {
		return ErrMissingAddress
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// explainConflict turns a failed conditional update into the precise error:
// wrong collector is Forbidden, wrong status is InvalidTransition.
func (s *RequestService) explainConflict(ctx context.Context, requestID, collectorID string) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.CollectorID != nil && *request.CollectorID != collectorID {
		return ErrForbidden
	}
	return ErrInvalidTransition
}

func (s *RequestService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateStats(ctx)
}

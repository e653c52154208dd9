package tests

import (
	"context"
	"errors"
	"testing"

	"greencycle/internal/domain"
	"greencycle/internal/service"
)

// ──────────────────────────────────────────────
// 1. REQUEST CREATION
// ──────────────────────────────────────────────

func newRequestService(requests *MockRequestRepository, transactions *MockTransactionRepository, users *MockUserRepository) *service.RequestService {
	txManager := NewMockTxManager(requests, transactions, users)
	ledger := service.NewLedgerService(txManager, transactions, users)
	return service.NewRequestService(requests, users, ledger, txManager, nil)
}

func TestCreateRequest_StartsPendingWithEstimate(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Asha", Role: domain.RoleUser})

	svc := newRequestService(requestRepo, NewMockTransactionRepository(), userRepo)

	req, err := svc.Create(context.Background(), service.CreateRequestRequest{
		OwnerID:    "user-1",
		WasteType:  domain.WasteTypePlastic,
		QuantityKg: 5,
		Address:    "12 MG Road",
		Lat:        12.97,
		Lng:        77.59,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Status != domain.RequestStatusPending {
		t.Errorf("expected status %s, got %s", domain.RequestStatusPending, req.Status)
	}
	// 5kg of plastic at 12/kg is 60, doubled into coins.
	if req.EstimatedValue != 60 {
		t.Errorf("expected estimated value 60, got %v", req.EstimatedValue)
	}
	if req.EstimatedGreenCoins != 120 {
		t.Errorf("expected estimated coins 120, got %d", req.EstimatedGreenCoins)
	}
	if req.CollectorID != nil || req.ActualValue != nil || req.CompletedAt != nil {
		t.Error("pending request must not carry claim or completion data")
	}
	if requestRepo.CountRequests() != 1 {
		t.Errorf("expected 1 stored request, got %d", requestRepo.CountRequests())
	}
}

func TestCreateRequest_ValidationFailures(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Role: domain.RoleUser})

	svc := newRequestService(requestRepo, NewMockTransactionRepository(), userRepo)

	valid := service.CreateRequestRequest{
		OwnerID:    "user-1",
		WasteType:  domain.WasteTypePaper,
		QuantityKg: 2,
		Address:    "12 MG Road",
		Lat:        12.97,
		Lng:        77.59,
	}

	cases := []struct {
		name    string
		mutate  func(*service.CreateRequestRequest)
		wantErr error
	}{
		{"missing owner", func(r *service.CreateRequestRequest) { r.OwnerID = "" }, service.ErrInvalidOwnerID},
		{"zero quantity", func(r *service.CreateRequestRequest) { r.QuantityKg = 0 }, service.ErrInvalidQuantity},
		{"negative quantity", func(r *service.CreateRequestRequest) { r.QuantityKg = -1 }, service.ErrInvalidQuantity},
		{"unknown waste type", func(r *service.CreateRequestRequest) { r.WasteType = "styrofoam" }, service.ErrInvalidWasteType},
		{"missing address", func(r *service.CreateRequestRequest) { r.Address = "" }, service.ErrMissingAddress},
		{"latitude out of range", func(r *service.CreateRequestRequest) { r.Lat = 91 }, service.ErrInvalidCoordinates},
		{"longitude out of range", func(r *service.CreateRequestRequest) { r.Lng = -181 }, service.ErrInvalidCoordinates},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if requestRepo.CountRequests() != 0 {
		t.Errorf("no request should be stored after validation failures, got %d", requestRepo.CountRequests())
	}
}

func TestCreateRequest_UnknownOwnerRejected(t *testing.T) {
	t.Parallel()

	svc := newRequestService(NewMockRequestRepository(), NewMockTransactionRepository(), NewMockUserRepository())

	_, err := svc.Create(context.Background(), service.CreateRequestRequest{
		OwnerID:    "ghost",
		WasteType:  domain.WasteTypeMetal,
		QuantityKg: 1,
		Address:    "12 MG Road",
	})
	if err == nil {
		t.Fatal("expected error for unknown owner")
	}
}

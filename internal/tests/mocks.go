package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"greencycle/internal/domain"
	"greencycle/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository. The
// conditional transitions hold the same mutex for check and write, matching
// the atomicity the real store provides.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.WasteRequest

	// Counters for verification
	CreateCallCount          int32
	ClaimPendingCallCount    int32
	CompleteClaimedCallCount int32

	// Error injection
	CreateError   error
	GetByIDError  error
	CompleteError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.WasteRequest),
	}
}

// AddRequest seeds a request into the mock repository.
func (m *MockRequestRepository) AddRequest(req *domain.WasteRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = cloneRequest(req)
}

// GetRequest returns the stored request for test assertions.
func (m *MockRequestRepository) GetRequest(id string) *domain.WasteRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil
	}
	return cloneRequest(req)
}

// CountRequests returns how many requests are stored.
func (m *MockRequestRepository) CountRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.WasteRequest) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = cloneRequest(req)
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.WasteRequest, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (m *MockRequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.WasteRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WasteRequest
	for _, r := range m.requests {
		if r.Status == status {
			result = append(result, cloneRequest(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *MockRequestRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.WasteRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WasteRequest
	for _, r := range m.requests {
		if r.OwnerID == ownerID {
			result = append(result, cloneRequest(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockRequestRepository) ListByCollector(ctx context.Context, collectorID string) ([]*domain.WasteRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WasteRequest
	for _, r := range m.requests {
		if r.CollectorID != nil && *r.CollectorID == collectorID {
			result = append(result, cloneRequest(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockRequestRepository) GetAll(ctx context.Context) ([]*domain.WasteRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.WasteRequest, 0, len(m.requests))
	for _, r := range m.requests {
		result = append(result, cloneRequest(r))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *MockRequestRepository) ClaimPending(ctx context.Context, id, collectorID string, scheduledDate time.Time) error {
	atomic.AddInt32(&m.ClaimPendingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Status != domain.RequestStatusPending {
		return repository.ErrConflict
	}
	req.Status = domain.RequestStatusAssigned
	req.CollectorID = &collectorID
	req.ScheduledDate = &scheduledDate
	return nil
}

func (m *MockRequestRepository) MarkCollected(ctx context.Context, id, collectorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Status != domain.RequestStatusAssigned || req.CollectorID == nil || *req.CollectorID != collectorID {
		return repository.ErrConflict
	}
	req.Status = domain.RequestStatusCollected
	return nil
}

func (m *MockRequestRepository) CompleteClaimed(ctx context.Context, id, collectorID string, actualValue float64, coinsEarned int64, completedAt time.Time) error {
	atomic.AddInt32(&m.CompleteClaimedCallCount, 1)
	if m.CompleteError != nil {
		return m.CompleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	completable := req.Status == domain.RequestStatusAssigned || req.Status == domain.RequestStatusCollected
	if !completable || req.CollectorID == nil || *req.CollectorID != collectorID {
		return repository.ErrConflict
	}
	req.Status = domain.RequestStatusCompleted
	req.ActualValue = &actualValue
	req.GreenCoinsEarned = &coinsEarned
	req.CompletedAt = &completedAt
	return nil
}

func (m *MockRequestRepository) CancelPending(ctx context.Context, id string, cancelledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.Status != domain.RequestStatusPending {
		return repository.ErrConflict
	}
	req.Status = domain.RequestStatusCancelled
	req.CancelledAt = &cancelledAt
	return nil
}

func (m *MockRequestRepository) snapshot() map[string]*domain.WasteRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copy := make(map[string]*domain.WasteRequest, len(m.requests))
	for id, r := range m.requests {
		copy[id] = cloneRequest(r)
	}
	return copy
}

func (m *MockRequestRepository) restore(state map[string]*domain.WasteRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = state
}

func cloneRequest(r *domain.WasteRequest) *domain.WasteRequest {
	copy := *r
	copy.ActualValue = clonePtr(r.ActualValue)
	copy.GreenCoinsEarned = clonePtr(r.GreenCoinsEarned)
	copy.ScheduledDate = clonePtr(r.ScheduledDate)
	copy.CollectorID = clonePtr(r.CollectorID)
	copy.CompletedAt = clonePtr(r.CompletedAt)
	copy.CancelledAt = clonePtr(r.CancelledAt)
	return &copy
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of
// TransactionRepository. It enforces the one-pickup-entry-per-request rule
// the real store enforces with a partial unique index.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	entries []*domain.Transaction

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// AddEntry seeds a ledger entry into the mock repository.
func (m *MockTransactionRepository) AddEntry(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, cloneTransaction(tx))
}

// CountEntries returns how many ledger entries are stored.
func (m *MockTransactionRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// PickupEntryCount returns how many pickup entries reference the request.
func (m *MockTransactionRepository) PickupEntryCount(requestID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.entries {
		if e.Kind == domain.TransactionKindPickup && e.RelatedRequestID != nil && *e.RelatedRequestID == requestID {
			count++
		}
	}
	return count
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.Kind == domain.TransactionKindPickup && tx.RelatedRequestID != nil {
		for _, e := range m.entries {
			if e.Kind == domain.TransactionKindPickup && e.RelatedRequestID != nil && *e.RelatedRequestID == *tx.RelatedRequestID {
				return repository.ErrDuplicateEntry
			}
		}
	}
	m.entries = append(m.entries, cloneTransaction(tx))
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			return cloneTransaction(e), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			result = append(result, cloneTransaction(m.entries[i]))
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) GetPickupByRequestID(ctx context.Context, requestID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Kind == domain.TransactionKindPickup && e.RelatedRequestID != nil && *e.RelatedRequestID == requestID {
			return cloneTransaction(e), nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		result = append(result, cloneTransaction(m.entries[i]))
	}
	return result, nil
}

func (m *MockTransactionRepository) snapshot() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copy := make([]*domain.Transaction, len(m.entries))
	for i, e := range m.entries {
		copy[i] = cloneTransaction(e)
	}
	return copy
}

func (m *MockTransactionRepository) restore(state []*domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = state
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	copy := *t
	copy.CollectorID = clonePtr(t.CollectorID)
	copy.RelatedRequestID = clonePtr(t.RelatedRequestID)
	return &copy
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	AdjustBalancesCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser seeds a user into the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	u := *user
	return &u
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Phone == phone {
			u := *user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		u := *user
		result = append(result, &u)
	}
	return result, nil
}

func (m *MockUserRepository) AdjustBalances(ctx context.Context, id string, coinsDelta, ecoScoreDelta int64) error {
	atomic.AddInt32(&m.AdjustBalancesCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if user.GreenCoins+coinsDelta < 0 {
		return repository.ErrConflict
	}
	user.GreenCoins += coinsDelta
	user.EcoScore += ecoScoreDelta
	return nil
}

func (m *MockUserRepository) snapshot() map[string]*domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copy := make(map[string]*domain.User, len(m.users))
	for id, user := range m.users {
		u := *user
		copy[id] = &u
	}
	return copy
}

func (m *MockUserRepository) restore(state map[string]*domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = state
}

// ──────────────────────────────────────────────
// MOCK TX MANAGER
// ──────────────────────────────────────────────

// MockTxManager runs the unit-of-work against the shared mocks. It snapshots
// their state first and restores it when the function fails, mimicking a
// rollback, so atomicity assertions are meaningful.
type MockTxManager struct {
	mu sync.Mutex

	RequestRepo     *MockRequestRepository
	TransactionRepo *MockTransactionRepository
	UserRepo        *MockUserRepository

	// Counters for verification
	WithinTxCallCount int32

	// Error injection
	BeginError error
}

// NewMockTxManager creates a mock tx manager over the given mocks.
func NewMockTxManager(requests *MockRequestRepository, transactions *MockTransactionRepository, users *MockUserRepository) *MockTxManager {
	return &MockTxManager{
		RequestRepo:     requests,
		TransactionRepo: transactions,
		UserRepo:        users,
	}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	requests := m.RequestRepo.snapshot()
	transactions := m.TransactionRepo.snapshot()
	users := m.UserRepo.snapshot()

	if err := fn(&mockTx{m}); err != nil {
		m.RequestRepo.restore(requests)
		m.TransactionRepo.restore(transactions)
		m.UserRepo.restore(users)
		return err
	}
	return nil
}

type mockTx struct {
	manager *MockTxManager
}

func (t *mockTx) Requests() repository.RequestRepository {
	return t.manager.RequestRepo
}

func (t *mockTx) Transactions() repository.TransactionRepository {
	return t.manager.TransactionRepo
}

func (t *mockTx) Users() repository.UserRepository {
	return t.manager.UserRepo
}

// Interface conformance checks.
var (
	_ repository.RequestRepository     = (*MockRequestRepository)(nil)
	_ repository.TransactionRepository = (*MockTransactionRepository)(nil)
	_ repository.UserRepository        = (*MockUserRepository)(nil)
	_ repository.TxManager             = (*MockTxManager)(nil)
)

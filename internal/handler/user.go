package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greencycle/internal/domain"
	"greencycle/internal/repository"
	"greencycle/internal/service"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userRepo repository.UserRepository
	ledger   *service.LedgerService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, ledger *service.LedgerService) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		ledger:   ledger,
	}
}

// RegisterUserRequest is the HTTP request body for user registration.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role,omitempty"` // user, collector or admin
}

// WithdrawRequest is the HTTP request body for withdrawing GreenCoins.
type WithdrawRequest struct {
	GreenCoins  int64  `json:"green_coins"`
	Description string `json:"description,omitempty"`
}

// UserResponse is the HTTP representation of a user.
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	GreenCoins int64  `json:"green_coins"`
	EcoScore   int64  `json:"eco_score"`
	CreatedAt  string `json:"created_at"`
}

// TransactionResponse is the HTTP representation of a ledger entry.
type TransactionResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	CollectorID      string  `json:"collector_id,omitempty"`
	RelatedRequestID string  `json:"related_request_id,omitempty"`
	Kind             string  `json:"kind"`
	MonetaryAmount   float64 `json:"monetary_amount"`
	GreenCoins       int64   `json:"green_coins"`
	Description      string  `json:"description,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Phone:      u.Phone,
		Role:       string(u.Role),
		GreenCoins: u.GreenCoins,
		EcoScore:   u.EcoScore,
		CreatedAt:  u.CreatedAt.Format(timestampLayout),
	}
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		Kind:           string(t.Kind),
		MonetaryAmount: t.MonetaryAmount,
		GreenCoins:     t.GreenCoins,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt.Format(timestampLayout),
	}
	if t.CollectorID != nil {
		resp.CollectorID = *t.CollectorID
	}
	if t.RelatedRequestID != nil {
		resp.RelatedRequestID = *t.RelatedRequestID
	}
	return resp
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	role := domain.RoleUser
	switch req.Role {
	case "", string(domain.RoleUser):
	case string(domain.RoleCollector):
		role = domain.RoleCollector
	case string(domain.RoleAdmin):
		role = domain.RoleAdmin
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role must be user, collector or admin"})
		return
	}

	// Phone is the registration identity; re-registering returns the
	// existing account.
	existing, err := h.userRepo.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "already registered",
			"user":    toUserResponse(existing),
		})
		return
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      role,
		CreatedAt: time.Now(),
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// Get handles GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	respondJSON(c, http.StatusOK, responses)
}

// Transactions handles GET /v1/users/:id/transactions
func (h *UserHandler) Transactions(c *gin.Context) {
	entries, err := h.ledger.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(entries))
	for _, t := range entries {
		responses = append(responses, toTransactionResponse(t))
	}
	respondJSON(c, http.StatusOK, responses)
}

// Withdraw handles POST /v1/users/:id/withdraw
func (h *UserHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.ledger.Withdraw(c.Request.Context(), c.Param("id"), req.GreenCoins, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(entry))
}

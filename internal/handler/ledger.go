package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greencycle/internal/domain"
	"greencycle/internal/service"
)

// LedgerHandler handles HTTP requests for administrative ledger entries.
type LedgerHandler struct {
	ledger *service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// RecordEntryRequest is the HTTP request body for recording a reward or
// penalty. Pickup entries cannot be created here; they only exist as part of
// completing a request.
type RecordEntryRequest struct {
	UserID         string  `json:"user_id"`
	ActorID        string  `json:"actor_id"`
	Kind           string  `json:"kind"`
	MonetaryAmount float64 `json:"monetary_amount,omitempty"`
	GreenCoins     int64   `json:"green_coins"`
	Description    string  `json:"description,omitempty"`
}

// Record handles POST /v1/ledger/entries
func (h *LedgerHandler) Record(c *gin.Context) {
	var req RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.ledger.Record(c.Request.Context(), service.RecordEntryRequest{
		UserID:         req.UserID,
		ActorID:        req.ActorID,
		Kind:           domain.TransactionKind(req.Kind),
		MonetaryAmount: req.MonetaryAmount,
		GreenCoins:     req.GreenCoins,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTransactionResponse(entry))
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"greencycle/internal/domain"
	"greencycle/internal/service"
)

const dateLayout = "2006-01-02"
const timestampLayout = "2006-01-02T15:04:05Z07:00"

// RequestHandler handles HTTP requests for waste pickup requests.
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequestRequest is the HTTP request body for creating a pickup request.
type CreateRequestRequest struct {
	OwnerID       string  `json:"owner_id"`
	WasteType     string  `json:"waste_type"`
	QuantityKg    float64 `json:"quantity_kg"`
	Address       string  `json:"address"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	PreferredTime string  `json:"preferred_time,omitempty"`
}

// AcceptRequestRequest is the HTTP request body for claiming a request.
type AcceptRequestRequest struct {
	CollectorID   string `json:"collector_id"`
	ScheduledDate string `json:"scheduled_date"` // YYYY-MM-DD
}

// CollectRequestRequest is the HTTP request body for marking waste collected.
type CollectRequestRequest struct {
	CollectorID string `json:"collector_id"`
}

// CompleteRequestRequest is the HTTP request body for completing a pickup.
type CompleteRequestRequest struct {
	CollectorID string   `json:"collector_id"`
	ActualValue *float64 `json:"actual_value,omitempty"`
}

// CancelRequestRequest is the HTTP request body for cancelling a request.
type CancelRequestRequest struct {
	RequestedBy string `json:"requested_by"`
}

// RequestResponse is the HTTP representation of a waste request.
type RequestResponse struct {
	ID                  string   `json:"id"`
	OwnerID             string   `json:"owner_id"`
	WasteType           string   `json:"waste_type"`
	QuantityKg          float64  `json:"quantity_kg"`
	EstimatedValue      float64  `json:"estimated_value"`
	EstimatedGreenCoins int64    `json:"estimated_green_coins"`
	ActualValue         *float64 `json:"actual_value,omitempty"`
	GreenCoinsEarned    *int64   `json:"green_coins_earned,omitempty"`
	Address             string   `json:"address"`
	Lat                 float64  `json:"lat"`
	Lng                 float64  `json:"lng"`
	PreferredTime       string   `json:"preferred_time,omitempty"`
	ScheduledDate       string   `json:"scheduled_date,omitempty"`
	Status              string   `json:"status"`
	CollectorID         string   `json:"collector_id,omitempty"`
	CompletedAt         string   `json:"completed_at,omitempty"`
	CancelledAt         string   `json:"cancelled_at,omitempty"`
	CreatedAt           string   `json:"created_at"`
}

func toRequestResponse(r *domain.WasteRequest) RequestResponse {
	resp := RequestResponse{
		ID:                  r.ID,
		OwnerID:             r.OwnerID,
		WasteType:           string(r.WasteType),
		QuantityKg:          r.QuantityKg,
		EstimatedValue:      r.EstimatedValue,
		EstimatedGreenCoins: r.EstimatedGreenCoins,
		ActualValue:         r.ActualValue,
		GreenCoinsEarned:    r.GreenCoinsEarned,
		Address:             r.Address,
		Lat:                 r.Lat,
		Lng:                 r.Lng,
		PreferredTime:       r.PreferredTime,
		Status:              string(r.Status),
		CreatedAt:           r.CreatedAt.Format(timestampLayout),
	}

	if r.CollectorID != nil {
		resp.CollectorID = *r.CollectorID
	}
	if r.ScheduledDate != nil {
		resp.ScheduledDate = r.ScheduledDate.Format(dateLayout)
	}
	if r.CompletedAt != nil {
		resp.CompletedAt = r.CompletedAt.Format(timestampLayout)
	}
	if r.CancelledAt != nil {
		resp.CancelledAt = r.CancelledAt.Format(timestampLayout)
	}

	return resp
}

func toRequestResponses(requests []*domain.WasteRequest) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}
	return responses
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), service.CreateRequestRequest{
		OwnerID:       req.OwnerID,
		WasteType:     domain.WasteType(req.WasteType),
		QuantityKg:    req.QuantityKg,
		Address:       req.Address,
		Lat:           req.Lat,
		Lng:           req.Lng,
		PreferredTime: req.PreferredTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRequestResponse(request))
}

// Get handles GET /v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	request, err := h.requestService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// GetAll handles GET /v1/requests with optional owner_id / collector_id filters.
func (h *RequestHandler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		requests []*domain.WasteRequest
		err      error
	)
	switch {
	case c.Query("owner_id") != "":
		requests, err = h.requestService.ListByOwner(ctx, c.Query("owner_id"))
	case c.Query("collector_id") != "":
		requests, err = h.requestService.ListByCollector(ctx, c.Query("collector_id"))
	default:
		requests, err = h.requestService.GetAll(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponses(requests))
}

// ListPending handles GET /v1/requests/pending
func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requestService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponses(requests))
}

// Accept handles POST /v1/requests/:id/accept
func (h *RequestHandler) Accept(c *gin.Context) {
	var req AcceptRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	scheduledDate, err := time.Parse(dateLayout, req.ScheduledDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "scheduled_date must be YYYY-MM-DD"})
		return
	}

	request, err := h.requestService.Accept(c.Request.Context(), service.AcceptRequest{
		RequestID:     c.Param("id"),
		CollectorID:   req.CollectorID,
		ScheduledDate: scheduledDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// Collect handles POST /v1/requests/:id/collect
func (h *RequestHandler) Collect(c *gin.Context) {
	var req CollectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.requestService.MarkCollected(c.Request.Context(), c.Param("id"), req.CollectorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// Complete handles POST /v1/requests/:id/complete
func (h *RequestHandler) Complete(c *gin.Context) {
	var req CompleteRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.requestService.Complete(c.Request.Context(), service.CompleteRequest{
		RequestID:   c.Param("id"),
		CollectorID: req.CollectorID,
		ActualValue: req.ActualValue,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

// Cancel handles POST /v1/requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	var req CancelRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), c.Param("id"), req.RequestedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRequestResponse(request))
}

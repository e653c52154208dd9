package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"greencycle/internal/pricing"
	"greencycle/internal/repository"
	"greencycle/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: errorMessage(err)})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOwnerID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidCollectorID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidWasteType),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidScheduledDate),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, pricing.ErrInvalidQuantity):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyClaimed),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusConflict

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Default to internal server error. ErrLedgerConflict lands here on
	// purpose: it is a store contract violation, not a client problem.
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the user-visible message for an error. Race losers
// get a message they can show directly instead of retrying blindly.
func errorMessage(err error) string {
	if errors.Is(err, service.ErrAlreadyClaimed) {
		return "This pickup was already claimed"
	}
	return err.Error()
}

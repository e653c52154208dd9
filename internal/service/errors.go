package service

import "errors"

var (
	// ErrInvalidOwnerID is returned when the owner ID is empty.
	ErrInvalidOwnerID = errors.New("invalid owner id")

	// ErrInvalidRequestID is returned when the request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidCollectorID is returned when the collector ID is empty.
	ErrInvalidCollectorID = errors.New("invalid collector id")

	// ErrInvalidUserID is returned when the user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidQuantity is returned when the quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInvalidWasteType is returned when the waste type is unknown.
	ErrInvalidWasteType = errors.New("invalid waste type")

	// ErrMissingAddress is returned when the pickup address is empty.
	ErrMissingAddress = errors.New("pickup address is required")

	// ErrInvalidCoordinates is returned when pickup coordinates are out of range.
	ErrInvalidCoordinates = errors.New("invalid pickup coordinates")

	// ErrInvalidScheduledDate is returned when the scheduled date is missing
	// or in the past.
	ErrInvalidScheduledDate = errors.New("invalid scheduled date")

	// ErrInvalidAmount is returned when a ledger amount is not usable for
	// the entry kind.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidKind is returned when a ledger entry kind is unknown.
	ErrInvalidKind = errors.New("invalid transaction kind")

	// ErrAlreadyClaimed is returned when an accept call lost the race:
	// another collector claimed the request first, or it was cancelled.
	ErrAlreadyClaimed = errors.New("request already claimed")

	// ErrInvalidTransition is returned when an action is not legal from the
	// request's current status.
	ErrInvalidTransition = errors.New("action not allowed in current status")

	// ErrForbidden is returned when the actor is not authorized for the
	// action, e.g. a collector completing someone else's assignment.
	ErrForbidden = errors.New("actor not authorized for this action")

	// ErrInsufficientBalance is returned when a ledger entry would drive a
	// user's GreenCoins balance below zero.
	ErrInsufficientBalance = errors.New("insufficient green coin balance")

	// ErrLedgerConflict is returned when the store reports a duplicate
	// pickup entry after the request transitioned to COMPLETED. Completion
	// and ledger write are one atomic unit, so this indicates the store has
	// violated its contract and must be surfaced, never swallowed.
	ErrLedgerConflict = errors.New("ledger entry conflict on completed request")
)

package domain

import "time"

// RequestStatus represents the current status of a waste pickup request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAssigned  RequestStatus = "ASSIGNED"
	RequestStatusCollected RequestStatus = "COLLECTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are legal from this status.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// WasteType represents the category of waste in a pickup request.
type WasteType string

const (
	WasteTypePlastic   WasteType = "plastic"
	WasteTypePaper     WasteType = "paper"
	WasteTypeMetal     WasteType = "metal"
	WasteTypeEWaste    WasteType = "e-waste"
	WasteTypeOrganic   WasteType = "organic"
	WasteTypeMixed     WasteType = "mixed"
	WasteTypeCardboard WasteType = "cardboard"
	WasteTypeGlass     WasteType = "glass"
)

// WasteTypes lists all known waste categories.
var WasteTypes = []WasteType{
	WasteTypePlastic,
	WasteTypePaper,
	WasteTypeMetal,
	WasteTypeEWaste,
	WasteTypeOrganic,
	WasteTypeMixed,
	WasteTypeCardboard,
	WasteTypeGlass,
}

// ValidWasteType reports whether t is a known waste category.
func ValidWasteType(t WasteType) bool {
	for _, wt := range WasteTypes {
		if wt == t {
			return true
		}
	}
	return false
}

// WasteRequest represents one citizen's pickup request.
//
// Fields that only exist in certain states are pointers and are nil outside
// those states: CollectorID and ScheduledDate are non-nil iff the request has
// been claimed (ASSIGNED, COLLECTED, COMPLETED); ActualValue, GreenCoinsEarned
// and CompletedAt are non-nil iff COMPLETED; CancelledAt is non-nil iff
// CANCELLED. The store enforces this via conditional updates.
type WasteRequest struct {
	ID      string
	OwnerID string

	WasteType  WasteType
	QuantityKg float64

	// Estimate is computed once at creation and never changes.
	EstimatedValue      float64
	EstimatedGreenCoins int64

	// Actuals are set only at completion.
	ActualValue      *float64
	GreenCoinsEarned *int64

	Address       string
	Lat           float64
	Lng           float64
	PreferredTime string
	ScheduledDate *time.Time

	Status      RequestStatus
	CollectorID *string
	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
}

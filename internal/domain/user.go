package domain

import "time"

// Role represents a verified actor role. Authentication happens outside this
// service; roles are looked up by actor id when authorizing an operation.
type Role string

const (
	RoleUser      Role = "user"
	RoleCollector Role = "collector"
	RoleAdmin     Role = "admin"
)

// User represents a citizen, collector or administrator.
// GreenCoins and EcoScore are mutated only by the ledger.
type User struct {
	ID         string
	Name       string
	Phone      string
	Role       Role
	GreenCoins int64
	EcoScore   int64
	CreatedAt  time.Time
}

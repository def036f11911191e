// internal/domain/membership/entity.go
package membership

import (
	"time"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "ACTIVE"
	PlanStatusInactive PlanStatus = "INACTIVE"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusTrial     Status = "TRIAL"
	StatusPending   Status = "PENDING"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
	StatusSuspended Status = "SUSPENDED"
)

// GrantsAccess reports whether memberships in this status may be entitled.
func (s Status) GrantsAccess() bool {
	return s == StatusActive || s == StatusTrial
}

type Plan struct {
	ID        int64      `json:"id" db:"id"`
	AcademyID int64      `json:"academy_id" db:"academy_id"`
	Name      string     `json:"name" db:"name"`
	Price     float64    `json:"price" db:"price"`
	Currency  string     `json:"currency" db:"currency"`
	Status    PlanStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Membership struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	AcademyID int64      `json:"academy_id" db:"academy_id"`
	PlanID    int64      `json:"plan_id" db:"plan_id"`
	Status    Status     `json:"status" db:"status"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"` // nil means open-ended

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActiveAt reports whether the membership is current at now. The window is
// inclusive at StartDate and exclusive at EndDate.
func (m *Membership) IsActiveAt(now time.Time) bool {
	if !m.Status.GrantsAccess() {
		return false
	}
	if m.StartDate.After(now) {
		return false
	}
	return m.EndDate == nil || m.EndDate.After(now)
}

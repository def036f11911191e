// internal/domain/payment/entity.go
package payment

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

type Type string

const (
	TypeSubscription Type = "SUBSCRIPTION"
	TypeOneOff       Type = "ONE_OFF"
)

type Payment struct {
	ID           int64      `json:"id" db:"id"`
	AcademyID    int64      `json:"academy_id" db:"academy_id"`
	MembershipID *int64     `json:"membership_id,omitempty" db:"membership_id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	Amount       float64    `json:"amount" db:"amount"`
	Currency     string     `json:"currency" db:"currency"`
	Status       Status     `json:"status" db:"status"`
	Type         Type       `json:"type" db:"type"`
	PaidAt       *time.Time `json:"paid_at,omitempty" db:"paid_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Lifecycle is the reconciliation view of a payment row.
type Lifecycle string

const (
	LifecycleSettled  Lifecycle = "SETTLED"
	LifecycleAwaiting Lifecycle = "AWAITING"
	LifecycleStale    Lifecycle = "STALE"
	LifecycleOther    Lifecycle = "OTHER"
)

// Classify places p in its lifecycle state. A PENDING payment older than
// staleAfter is stale; a PAID payment without paidAt is not settled.
func Classify(p *Payment, now time.Time, staleAfter time.Duration) Lifecycle {
	switch p.Status {
	case StatusPaid:
		if p.PaidAt != nil {
			return LifecycleSettled
		}
		return LifecycleOther
	case StatusPending:
		if now.Sub(p.CreatedAt) > staleAfter {
			return LifecycleStale
		}
		return LifecycleAwaiting
	default:
		return LifecycleOther
	}
}

type LifecycleBucket struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type LifecycleSummary struct {
	AcademyID int64                         `json:"academy_id"`
	AsOf      time.Time                     `json:"as_of"`
	Total     int64                         `json:"total"`
	Buckets   map[Lifecycle]LifecycleBucket `json:"buckets"`
}

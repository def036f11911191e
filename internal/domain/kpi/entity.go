// internal/domain/kpi/entity.go
package kpi

import (
	"fmt"
	"time"
)

const MonthLayout = "2006-01"

// Metrics is the monthly dashboard snapshot of one academy.
type Metrics struct {
	AcademyID       int64     `json:"academy_id"`
	Month           string    `json:"month"`
	ActiveMembers   int64     `json:"active_members"`
	NewMembers      int64     `json:"new_members"`
	ChurnedMembers  int64     `json:"churned_members"`
	ActivePlans     int64     `json:"active_plans"`
	Revenue         float64   `json:"revenue"`
	PendingPayments int64     `json:"pending_payments"`
	PendingAmount   float64   `json:"pending_amount"`
	CalculatedAt    time.Time `json:"calculated_at"`
}

// Month is a calendar month in UTC.
type Month struct {
	Start time.Time
	End   time.Time // exclusive
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return Month{Start: t, End: t.AddDate(0, 1, 0)}, nil
}

func (m Month) String() string {
	return m.Start.Format(MonthLayout)
}

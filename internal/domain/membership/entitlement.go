package membership

import "time"

type EntitlementStatus string

const (
	EntitlementActive EntitlementStatus = "ACTIVE"
	EntitlementTrial  EntitlementStatus = "TRIAL"
	EntitlementNone   EntitlementStatus = "NONE"
)

// Entitlement is the derived access right of a user at a point in time.
type Entitlement struct {
	UserID        int64             `json:"user_id"`
	AsOf          time.Time         `json:"as_of"`
	HasActivePlan bool              `json:"has_active_plan"`
	Status        EntitlementStatus `json:"status"`
	Membership    *Membership       `json:"membership,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
}

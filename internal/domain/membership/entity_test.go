package membership

import (
	"testing"
	"time"
)

func TestIsActiveAtBoundaries(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := now

	startsNow := Membership{Status: StatusActive, StartDate: now}
	endsNow := Membership{Status: StatusTrial, StartDate: now.AddDate(0, -1, 0), EndDate: &end}

	if !startsNow.IsActiveAt(now) {
		t.Error("start date is inclusive")
	}
	if endsNow.IsActiveAt(now) {
		t.Error("end date is exclusive")
	}
	if !endsNow.IsActiveAt(now.Add(-time.Nanosecond)) {
		t.Error("membership should be active just before its end date")
	}
}

func TestGrantsAccess(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusTrial} {
		if !s.GrantsAccess() {
			t.Errorf("%s should grant access", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusExpired, StatusCancelled, StatusSuspended, Status("")} {
		if s.GrantsAccess() {
			t.Errorf("%s should not grant access", s)
		}
	}
}

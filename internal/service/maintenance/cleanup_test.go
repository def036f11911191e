package maintenance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/membership"
	"academy-service/internal/domain/payment"
	"academy-service/internal/domain/user"
	xerrors "academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// fakeTx records commit/rollback; every other pgx.Tx method is unused.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeDB is an in-memory academy with users, memberships and payments. Deletes
// are staged on the transaction and applied on commit.
type fakeDB struct {
	mu          sync.Mutex
	academies   map[string]*academy.Academy
	users       []user.User
	memberships []membership.Membership
	payments    []payment.Payment
	tx          *fakeTx
	staged      []int64
	deleteErr   error
}

func (f *fakeDB) BeginTx(context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	f.staged = nil
	return f.tx, nil
}

func (f *fakeDB) Resolve(_ context.Context, slug string) (academy.Resolution, error) {
	if a, ok := f.academies[slug]; ok {
		return academy.Found(a), nil
	}
	return academy.NotFound(), nil
}

func (f *fakeDB) FindByNamesWithTx(_ context.Context, _ pgx.Tx, academyID int64, names []string) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.AcademyID == nil || *u.AcademyID != academyID {
			continue
		}
		for _, n := range names {
			if strings.EqualFold(u.Name, n) {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeDB) ListByUsersWithTx(_ context.Context, _ pgx.Tx, academyID int64, userIDs []int64) ([]membership.Membership, error) {
	var out []membership.Membership
	for _, m := range f.memberships {
		for _, id := range userIDs {
			if m.AcademyID == academyID && m.UserID == id {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (f *fakeDB) DeletePendingByMembershipsWithTx(_ context.Context, _ pgx.Tx, membershipIDs []int64) ([]int64, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var userIDs []int64
	for _, p := range f.payments {
		if p.Status != payment.StatusPending || p.MembershipID == nil {
			continue
		}
		for _, id := range membershipIDs {
			if *p.MembershipID == id {
				f.staged = append(f.staged, p.ID)
				userIDs = append(userIDs, p.UserID)
			}
		}
	}
	return userIDs, nil
}

func (f *fakeDB) apply() {
	if f.tx == nil || !f.tx.committed {
		return
	}
	drop := map[int64]bool{}
	for _, id := range f.staged {
		drop[id] = true
	}
	kept := f.payments[:0]
	for _, p := range f.payments {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	f.payments = kept
}

func ptr[T any](v T) *T { return &v }

func seed() *fakeDB {
	return &fakeDB{
		academies: map[string]*academy.Academy{
			"global-jiu-jitsu": {ID: 1, Slug: "global-jiu-jitsu"},
			"other-gym":        {ID: 2, Slug: "other-gym"},
		},
		users: []user.User{
			{ID: 10, Name: "Agustin", AcademyID: ptr(int64(1))},
			{ID: 11, Name: "Lucia", AcademyID: ptr(int64(1))},
			{ID: 20, Name: "Agustin", AcademyID: ptr(int64(2))},
		},
		memberships: []membership.Membership{
			{ID: 100, UserID: 10, AcademyID: 1},
			{ID: 101, UserID: 11, AcademyID: 1},
			{ID: 200, UserID: 20, AcademyID: 2},
		},
		payments: []payment.Payment{
			{ID: 1, UserID: 10, MembershipID: ptr(int64(100)), Status: payment.StatusPending},
			{ID: 2, UserID: 10, MembershipID: ptr(int64(100)), Status: payment.StatusPending},
			{ID: 3, UserID: 10, MembershipID: ptr(int64(100)), Status: payment.StatusPaid},
			{ID: 4, UserID: 11, MembershipID: ptr(int64(101)), Status: payment.StatusPending},
			{ID: 5, UserID: 20, MembershipID: ptr(int64(200)), Status: payment.StatusPending},
		},
	}
}

func newTestService(db *fakeDB) *Service {
	return NewService(db, db, db, db, db, zap.NewNop())
}

func TestCleanupDeletesOnlyPendingPaymentsOfNamedUsers(t *testing.T) {
	db := seed()
	svc := newTestService(db)

	report, err := svc.CleanupPendingPayments(context.Background(), "global-jiu-jitsu", []string{"Agustin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db.apply()

	if report.Deleted != 2 {
		t.Fatalf("Deleted = %d, want 2", report.Deleted)
	}
	if report.PerUser["Agustin"] != 2 {
		t.Errorf("PerUser = %v", report.PerUser)
	}
	if !db.tx.committed {
		t.Error("transaction not committed")
	}

	remaining := map[int64]bool{}
	for _, p := range db.payments {
		remaining[p.ID] = true
	}
	for _, id := range []int64{3, 4, 5} {
		if !remaining[id] {
			t.Errorf("payment %d should survive", id)
		}
	}
	if len(db.payments) != 3 {
		t.Errorf("remaining payments = %d, want 3", len(db.payments))
	}
}

func TestCleanupUnknownAcademy(t *testing.T) {
	svc := newTestService(seed())

	_, err := svc.CleanupPendingPayments(context.Background(), "nowhere", []string{"Agustin"})
	if !errors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCleanupRequiresNames(t *testing.T) {
	svc := newTestService(seed())

	for _, names := range [][]string{nil, {""}, {"  "}} {
		_, err := svc.CleanupPendingPayments(context.Background(), "global-jiu-jitsu", names)
		if !errors.Is(err, xerrors.ErrInvalidInput) {
			t.Errorf("names %q: expected ErrInvalidInput, got %v", names, err)
		}
	}
}

func TestCleanupReportsUnmatchedNames(t *testing.T) {
	db := seed()
	svc := newTestService(db)

	report, err := svc.CleanupPendingPayments(context.Background(), "global-jiu-jitsu", []string{"nobody"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Deleted != 0 || len(report.Unmatched) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if db.tx.committed {
		t.Error("nothing to commit")
	}
}

func TestCleanupRollsBackOnFailure(t *testing.T) {
	db := seed()
	db.deleteErr = errors.New("deadlock detected")
	svc := newTestService(db)

	if _, err := svc.CleanupPendingPayments(context.Background(), "global-jiu-jitsu", []string{"Agustin", "Lucia"}); err == nil {
		t.Fatal("expected error")
	}
	db.apply()

	if !db.tx.rolledBack || db.tx.committed {
		t.Errorf("tx = %+v", db.tx)
	}
	if len(db.payments) != 5 {
		t.Errorf("payments = %d, want 5", len(db.payments))
	}
}

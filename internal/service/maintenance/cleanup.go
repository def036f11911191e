package maintenance

import (
	"context"
	"fmt"
	"strings"

	"academy-service/internal/domain/academy"
	"academy-service/internal/domain/membership"
	"academy-service/internal/domain/user"
	xerrors "academy-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type AcademyResolver interface {
	Resolve(ctx context.Context, slug string) (academy.Resolution, error)
}

type UserFinder interface {
	FindByNamesWithTx(ctx context.Context, tx pgx.Tx, academyID int64, names []string) ([]user.User, error)
}

type MembershipFinder interface {
	ListByUsersWithTx(ctx context.Context, tx pgx.Tx, academyID int64, userIDs []int64) ([]membership.Membership, error)
}

type PaymentDeleter interface {
	DeletePendingByMembershipsWithTx(ctx context.Context, tx pgx.Tx, membershipIDs []int64) ([]int64, error)
}

// CleanupReport counts deleted payments, overall and per matched user name.
type CleanupReport struct {
	AcademyID int64          `json:"academy_id"`
	Deleted   int            `json:"deleted"`
	PerUser   map[string]int `json:"per_user"`
	Unmatched []string       `json:"unmatched,omitempty"`
}

type Service struct {
	db          TxBeginner
	academies   AcademyResolver
	users       UserFinder
	memberships MembershipFinder
	payments    PaymentDeleter
	logger      *zap.Logger
}

func NewService(
	db TxBeginner,
	academies AcademyResolver,
	users UserFinder,
	memberships MembershipFinder,
	payments PaymentDeleter,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:          db,
		academies:   academies,
		users:       users,
		memberships: memberships,
		payments:    payments,
		logger:      logger,
	}
}

// CleanupPendingPayments hard-deletes every PENDING payment attached to the
// memberships of the named users inside the academy. All deletes share one
// transaction; nothing is removed when any step fails.
func (s *Service) CleanupPendingPayments(ctx context.Context, academySlug string, userNames []string) (*CleanupReport, error) {
	names := normalizeNames(userNames)
	if strings.TrimSpace(academySlug) == "" || len(names) == 0 {
		return nil, fmt.Errorf("%w: academy slug and at least one user name are required", xerrors.ErrInvalidInput)
	}

	res, err := s.academies.Resolve(ctx, academySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve academy: %w", err)
	}
	a, ok := res.Academy()
	if !ok {
		return nil, fmt.Errorf("academy %q: %w", academySlug, xerrors.ErrNotFound)
	}

	report := &CleanupReport{AcademyID: a.ID, PerUser: map[string]int{}}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	users, err := s.users.FindByNamesWithTx(ctx, tx, a.ID, names)
	if err != nil {
		return nil, err
	}

	nameByUser := make(map[int64]string, len(users))
	userIDs := make([]int64, 0, len(users))
	for _, u := range users {
		nameByUser[u.ID] = u.Name
		userIDs = append(userIDs, u.ID)
		if _, ok := report.PerUser[u.Name]; !ok {
			report.PerUser[u.Name] = 0
		}
	}
	report.Unmatched = unmatched(names, users)

	if len(userIDs) == 0 {
		s.logger.Warn("no users matched for payment cleanup",
			zap.String("academy", academySlug),
			zap.Strings("names", names))
		return report, nil
	}

	memberships, err := s.memberships.ListByUsersWithTx(ctx, tx, a.ID, userIDs)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return report, nil
	}

	membershipIDs := make([]int64, len(memberships))
	for i, m := range memberships {
		membershipIDs[i] = m.ID
	}

	deletedFor, err := s.payments.DeletePendingByMembershipsWithTx(ctx, tx, membershipIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, uid := range deletedFor {
		report.PerUser[nameByUser[uid]]++
	}
	report.Deleted = len(deletedFor)

	s.logger.Info("pending payments deleted",
		zap.String("academy", academySlug),
		zap.Int64("academy_id", a.ID),
		zap.Int("deleted", report.Deleted),
		zap.Any("per_user", report.PerUser))

	return report, nil
}

func normalizeNames(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	return out
}

func unmatched(names []string, users []user.User) []string {
	found := map[string]bool{}
	for _, u := range users {
		found[strings.ToLower(u.Name)] = true
	}
	var missing []string
	for _, n := range names {
		if !found[strings.ToLower(n)] {
			missing = append(missing, n)
		}
	}
	return missing
}

package bootstrap

import (
	"context"
	"fmt"

	"academy-service/internal/domain/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	SuperAdminExists(ctx context.Context) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *user.User) error
}

type SuperAdmin struct {
	Email    string
	Password string
	Name     string
}

type Service struct {
	users  UserStore
	logger *zap.Logger
}

func NewService(users UserStore, logger *zap.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// EnsureSuperAdmin creates the platform super admin (no academy) if none exists.
func (s *Service) EnsureSuperAdmin(ctx context.Context, admin SuperAdmin) error {
	exists, err := s.users.SuperAdminExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check super admin existence: %w", err)
	}
	if exists {
		s.logger.Info("super admin already exists, skipping creation")
		return nil
	}

	if admin.Email == "" || admin.Password == "" || admin.Name == "" {
		return fmt.Errorf("super admin email, password, and name must be provided via environment variables")
	}

	taken, err := s.users.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return fmt.Errorf("email %s already belongs to a non super admin user", admin.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        admin.Email,
		Name:         admin.Name,
		Role:         user.RoleSuperAdmin,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}

	s.logger.Info("super admin created",
		zap.String("email", u.Email),
		zap.Int64("user_id", u.ID),
	)
	return nil
}

// internal/pkg/session/types.go
package session

import (
	"fmt"

	"academy-service/internal/domain/user"
	"academy-service/internal/pkg/jwt"
)

// Session is the verified identity handed to every core operation.
type Session struct {
	UserID    int64     `json:"user_id"`
	Role      user.Role `json:"role"`
	AcademyID *int64    `json:"academy_id,omitempty"`
	TokenID   string    `json:"-"`
}

// FromClaims builds a Session from verified token claims.
func FromClaims(c *jwt.Claims) (*Session, error) {
	role := user.Role(c.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", c.Role)
	}
	if c.AcademyID == nil && role != user.RoleSuperAdmin {
		return nil, fmt.Errorf("role %s requires an academy", role)
	}
	return &Session{
		UserID:    c.UserID,
		Role:      role,
		AcademyID: c.AcademyID,
		TokenID:   c.ID,
	}, nil
}

// InAcademy reports whether the session is scoped to academyID. Super admins
// are scoped to every academy.
func (s *Session) InAcademy(academyID int64) bool {
	if s.Role == user.RoleSuperAdmin {
		return true
	}
	return s.AcademyID != nil && *s.AcademyID == academyID
}

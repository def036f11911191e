// internal/domain/user/entity.go
package user

import (
	"time"
)

type Role string

const (
	RoleSuperAdmin   Role = "SUPER_ADMIN"
	RoleAcademyAdmin Role = "ACADEMY_ADMIN"
	RoleCoach        Role = "COACH"
	RoleStudent      Role = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAcademyAdmin, RoleCoach, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	Name         string `json:"name" db:"name"`
	Role         Role   `json:"role" db:"role"`
	AcademyID    *int64 `json:"academy_id,omitempty" db:"academy_id"` // nil only for platform super admins
	PasswordHash string `json:"-" db:"password_hash"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

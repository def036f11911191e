package session

import (
	"testing"

	"academy-service/internal/domain/user"
	"academy-service/internal/pkg/jwt"
)

func TestFromClaims(t *testing.T) {
	academy := int64(3)

	tests := []struct {
		name    string
		claims  jwt.Claims
		wantErr bool
	}{
		{"student with academy", jwt.Claims{UserID: 1, Role: "STUDENT", AcademyID: &academy}, false},
		{"super admin without academy", jwt.Claims{UserID: 2, Role: "SUPER_ADMIN"}, false},
		{"coach without academy", jwt.Claims{UserID: 3, Role: "COACH"}, true},
		{"unknown role", jwt.Claims{UserID: 4, Role: "janitor", AcademyID: &academy}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromClaims(&tt.claims)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.UserID != tt.claims.UserID {
				t.Errorf("UserID = %d", s.UserID)
			}
		})
	}
}

func TestInAcademy(t *testing.T) {
	a := int64(5)
	student := &Session{UserID: 1, Role: user.RoleStudent, AcademyID: &a}
	admin := &Session{UserID: 2, Role: user.RoleSuperAdmin}

	if !student.InAcademy(5) || student.InAcademy(6) {
		t.Error("student scope mismatch")
	}
	if !admin.InAcademy(6) {
		t.Error("super admin should reach every academy")
	}
}

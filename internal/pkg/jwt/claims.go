// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the auth collaborator puts into an access token.
type Claims struct {
	UserID         int64  `json:"user_id"`
	Role           string `json:"role"`
	AcademyID      *int64 `json:"academy_id,omitempty"`
	SessionPurpose string `json:"session_purpose"` // access, refresh
	jwt.RegisteredClaims
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		// If audience is required but missing
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}

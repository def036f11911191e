// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"academy-service/internal/pkg/jwt"
	"academy-service/internal/pkg/response"
	"academy-service/internal/pkg/session"
	"academy-service/internal/service/access"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Auth validates the bearer token and stores the resulting session
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			m.logger.Debug("token rejected", zap.Error(err))
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		sess, err := session.FromClaims(claims)
		if err != nil {
			m.logger.Warn("token carries an invalid session", zap.Int64("user_id", claims.UserID), zap.Error(err))
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		SetSession(c, sess)
		c.Next()
	}
}

// RequirePermission checks the role matrix and, when the route is tenant
// scoped, that the session belongs to the resolved academy.
// MUST be used after Auth() and, for tenant routes, Tenant()
func (m *AuthMiddleware) RequirePermission(action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			return
		}

		if !access.Can(sess.Role, action) {
			response.Error(c, http.StatusForbidden, "insufficient permissions", nil, map[string]interface{}{
				"required": action,
				"role":     sess.Role,
			})
			return
		}

		if a, scoped := GetAcademy(c); scoped && !sess.InAcademy(a.ID) {
			m.logger.Warn("cross-tenant access denied",
				zap.Int64("user_id", sess.UserID),
				zap.Int64("academy_id", a.ID),
			)
			response.Forbidden(c, "academy is outside your session")
			return
		}

		c.Next()
	}
}

// extractToken extracts Bearer token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}


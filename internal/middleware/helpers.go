// internal/middleware/helpers.go
package middleware

import (
	"academy-service/internal/domain/academy"
	"academy-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

const (
	ctxSession   = "session"
	ctxAcademy   = "academy"
	ctxRequestID = "request_id"
)

// GetSession returns the verified session set by Auth()
func GetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(ctxSession)
	if !exists {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}

// MustGetSession gets the session from context or panics
func MustGetSession(c *gin.Context) *session.Session {
	s, ok := GetSession(c)
	if !ok {
		panic("session not found in context")
	}
	return s
}

// GetAcademy returns the academy resolved by Tenant()
func GetAcademy(c *gin.Context) (*academy.Academy, bool) {
	v, exists := c.Get(ctxAcademy)
	if !exists {
		return nil, false
	}
	a, ok := v.(*academy.Academy)
	return a, ok
}

// MustGetAcademy gets the academy from context or panics
func MustGetAcademy(c *gin.Context) *academy.Academy {
	a, ok := GetAcademy(c)
	if !ok {
		panic("academy not found in context")
	}
	return a
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

func SetSession(c *gin.Context, s *session.Session) {
	c.Set(ctxSession, s)
}

func SetAcademy(c *gin.Context, a *academy.Academy) {
	c.Set(ctxAcademy, a)
}

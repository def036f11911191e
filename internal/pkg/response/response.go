// internal/pkg/response/response.go
package response

import (
	"net/http"

	xerrors "academy-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response. The error field is always set,
// falling back to the message when err is nil.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	// Abort before writing so later handlers never run
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
		Error:   xerrors.MessageOrDefault(err, message),
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	c.JSON(code, resp)
}

// StatusFor maps an application error onto its HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case xerrors.Is(err, xerrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case xerrors.Is(err, xerrors.ErrForbidden), xerrors.Is(err, xerrors.ErrUnauthorized):
		return http.StatusForbidden
	case xerrors.Is(err, xerrors.ErrInvalidInput),
		xerrors.Is(err, xerrors.ErrBadRequest),
		xerrors.Is(err, xerrors.ErrBillingDisabled):
		return http.StatusBadRequest
	case xerrors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case xerrors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict
	case xerrors.Is(err, xerrors.ErrDeprecated):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts err into a response. Internal and external-system
// failures never leak their cause to the caller.
func FromError(c *gin.Context, message string, err error) {
	status := StatusFor(err)
	switch {
	case xerrors.Is(err, xerrors.ErrExternalSystem):
		Error(c, status, message, xerrors.ErrExternalSystem)
	case status == http.StatusInternalServerError:
		Error(c, status, message, xerrors.ErrInternal)
	case status == http.StatusUnauthorized:
		Error(c, status, message, xerrors.ErrUnauthenticated)
	default:
		Error(c, status, message, err)
	}
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// Gone sends a 410 Gone response for retired endpoints.
func Gone(c *gin.Context, message string) {
	Error(c, http.StatusGone, message, xerrors.ErrDeprecated)
}

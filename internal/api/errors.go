package api

import (
	"errors"
	"net/http"

	"repairorder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgTokenRequired    = "Access token required"
	msgTokenInvalid     = "Invalid or expired token"
	msgRoleForbidden    = "You do not have permission to perform this action"
	msgRoleNotFound     = "Role not found"
	msgNotAuthenticated = "User not authenticated"
	msgInvalidPayload   = "Invalid request payload"
	msgInvalidID        = "Invalid repair order id"
	msgInternalError    = "Internal server error"
)

// APIError is the uniform failure envelope.
type APIError struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Error        string   `json:"error,omitempty"`
	RequiredRole []string `json:"requiredRole,omitempty"`
	UserRole     string   `json:"userRole,omitempty"`
}

// ErrorResponse writes a failure envelope.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{Message: message})
}

// ErrorResponseWithDetails writes a failure envelope with a detail string.
func ErrorResponseWithDetails(c *gin.Context, status int, message, detail string) {
	c.JSON(status, APIError{Message: message, Error: detail})
}

func abortWith(c *gin.Context, status int, body APIError) {
	c.AbortWithStatusJSON(status, body)
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// InvalidPayload rejects a body that could not be decoded.
func InvalidPayload(c *gin.Context) {
	BadRequest(c, msgInvalidPayload)
}

// statusForKind maps service error kinds to HTTP status codes.
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindPermission:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err. Causes of store failures are logged and only
// echoed to the client when EXPOSE_ERROR_DETAILS is on.
func (h *HTTPHandler) writeServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("unexpected handler error")
		InternalError(c, msgInternalError)
		return
	}

	status := statusForKind(svcErr.Kind)
	if svcErr.Kind != service.KindStore {
		ErrorResponse(c, status, svcErr.Message)
		return
	}

	logrus.WithError(svcErr.Err).WithFields(logrus.Fields{
		"path":       c.FullPath(),
		"request_id": c.GetString(requestIDContextKey),
	}).Error(svcErr.Message)
	if h.cfg.ExposeErrorDetails && svcErr.Err != nil {
		ErrorResponseWithDetails(c, status, svcErr.Message, svcErr.Err.Error())
		return
	}
	ErrorResponse(c, status, svcErr.Message)
}

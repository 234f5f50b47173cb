package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/taskflow/internal/dto"
)

// Messages shared by more than one layer.
const (
	MsgUnauthorized      = "Authentication required"
	MsgValidation        = "Validation error"
	MsgInternal          = "Internal server error"
	MsgNotMember         = "Access denied. You are not a member of this organization."
	MsgOrgIDRequired     = "Organization ID is required"
	MsgRouteNotFound     = "Route not found"
	MsgTooManyRequests   = "Too many requests from this IP, please try again later."
	MsgOrgContextMissing = "Organization context required"
)

// RespondWithError aborts the chain and writes a failed envelope.
func RespondWithError(c *gin.Context, statusCode int, message string, details []dto.FieldError) {
	c.AbortWithStatusJSON(statusCode, dto.Envelope{
		Success: false,
		Error:   message,
		Details: details,
	})
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, orDefault(message, MsgUnauthorized), nil)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, orDefault(message, "Access denied"), nil)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, orDefault(message, "Resource not found"), nil)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, orDefault(message, "Invalid request"), nil)
}

// ValidationFailed sends a 400 response listing every rejected field
func ValidationFailed(c *gin.Context, details []dto.FieldError) {
	RespondWithError(c, http.StatusBadRequest, MsgValidation, details)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, orDefault(message, "Resource conflict"), nil)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, MsgTooManyRequests, nil)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, orDefault(message, MsgInternal), nil)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusServiceUnavailable, orDefault(message, "Service temporarily unavailable"), nil)
}

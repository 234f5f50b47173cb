package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/taskflow/internal/dto"
)

func TestHelpersWriteEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		respond func(*gin.Context)
		status  int
		message string
	}{
		{"unauthorized default", func(c *gin.Context) { Unauthorized(c, "") }, http.StatusUnauthorized, MsgUnauthorized},
		{"forbidden", func(c *gin.Context) { Forbidden(c, MsgNotMember) }, http.StatusForbidden, MsgNotMember},
		{"not found", func(c *gin.Context) { NotFound(c, "Task not found") }, http.StatusNotFound, "Task not found"},
		{"conflict", func(c *gin.Context) { Conflict(c, "taken") }, http.StatusConflict, "taken"},
		{"too many", TooManyRequests, http.StatusTooManyRequests, MsgTooManyRequests},
		{"internal default", func(c *gin.Context) { InternalError(c, "") }, http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			tt.respond(c)

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"success":false,"error":"`+tt.message+`"}`, w.Body.String())
		})
	}
}

func TestValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ValidationFailed(c, []dto.FieldError{{Path: []string{"email"}, Message: "Invalid email"}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body dto.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, MsgValidation, body.Error)
	assert.Equal(t, []dto.FieldError{{Path: []string{"email"}, Message: "Invalid email"}}, body.Details)
}

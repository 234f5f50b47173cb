package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/database"
	"github.com/yukikurage/taskflow/internal/dto"
	"github.com/yukikurage/taskflow/internal/logger"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// Health reports whether the API and its database are reachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	now := h.now().UTC()
	if err := database.Ping(ctx, h.db); err != nil {
		logger.FromContext(c.Request.Context()).Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.HealthDTO{
			Success:   false,
			Error:     "Database unavailable",
			Timestamp: now,
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthDTO{
		Success:   true,
		Message:   "TaskFlow API is running",
		Timestamp: now,
	})
}

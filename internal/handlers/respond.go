package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/logger"
)

// respondInternal logs an unexpected error and answers with a generic 500.
func respondInternal(c *gin.Context, msg string, err error) {
	logger.FromContext(c.Request.Context()).Error(msg, zap.Error(err))
	apierrors.InternalError(c, "")
}

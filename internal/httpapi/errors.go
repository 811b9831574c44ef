package httpapi

import (
	"errors"
	"net/http"

	"call-scheduler/internal/calls"
	"call-scheduler/internal/reporting"
	"call-scheduler/internal/scheduler"
	"call-scheduler/pkg/logger"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP responses. Storage details are
// logged, never returned to the client.
func writeError(c *gin.Context, err error) {
	var se *scheduler.ScheduleError
	switch {
	case errors.As(err, &se):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": se.Err.Error(), "field": se.Field})
	case errors.Is(err, reporting.ErrInvalidRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case scheduler.IsEmptyLog(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case calls.IsStorageError(err):
		logger.FromGin(c).Error("store operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable"})
	default:
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package api

import (
	"context"
	"net/http"
	"time"

	"repairorder/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Health reports whether the database answers.
func (h *HTTPHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.repo == nil {
		c.JSON(http.StatusInternalServerError, entity.HealthResponse{
			Status:   "ERROR",
			Message:  "Database connection failed",
			Database: "disconnected",
		})
		return
	}
	if err := h.repo.Ping(ctx); err != nil {
		logrus.WithError(err).Error("health check failed")
		resp := entity.HealthResponse{
			Status:   "ERROR",
			Message:  "Database connection failed",
			Database: "disconnected",
		}
		if h.cfg.ExposeErrorDetails {
			resp.Error = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, entity.HealthResponse{
		Status:   "OK",
		Message:  "Server is running",
		Database: "connected",
	})
}

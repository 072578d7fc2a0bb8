package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"repairorder/internal/export"
	"repairorder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	exportArchiveHeader = "X-Export-Archive-Key"
	exportTimeout       = 30 * time.Second
)

// ExportRepairOrders streams one month of orders as an xlsx attachment.
func (h *HTTPHandler) ExportRepairOrders(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, msgNotAuthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exportTimeout)
	defer cancel()

	result, err := h.orderService.Export(ctx, user.identity(), service.ExportRequest{
		Year:  c.Query("year"),
		Month: c.Query("month"),
		Store: c.Query("store"),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"file_name": result.FileName,
		"rows":      result.Rows,
	}).Info("repair orders exported")

	if result.ArchiveKey != "" {
		c.Header(exportArchiveHeader, result.ArchiveKey)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Header("Content-Length", strconv.Itoa(len(result.Data)))
	c.Data(http.StatusOK, export.ContentType, result.Data)
}

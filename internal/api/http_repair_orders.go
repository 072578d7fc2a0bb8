package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"repairorder/internal/entity"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) ListRepairOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	orders, err := h.orderService.List(ctx, strings.TrimSpace(c.Query("search")))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.RepairOrderListResponse{Success: true, Data: orders})
}

func (h *HTTPHandler) GetRepairOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	order, err := h.orderService.Get(ctx, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.RepairOrderResponse{Success: true, Data: *order})
}

func (h *HTTPHandler) CreateRepairOrder(c *gin.Context) {
	var req entity.RepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	id, err := h.orderService.Create(ctx, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.CreatedResponse{
		Success: true,
		Message: "Repair order created successfully",
		ID:      id,
	})
}

func (h *HTTPHandler) UpdateRepairOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	var req entity.RepairOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	if err := h.orderService.Update(ctx, id, req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Success: true, Message: "Repair order updated successfully"})
}

func (h *HTTPHandler) DeleteRepairOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	if err := h.orderService.Delete(ctx, id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Success: true, Message: "Repair order deleted successfully"})
}

// parseOrderID reads :id and writes a 400 when it is not a positive integer.
func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

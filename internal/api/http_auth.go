package api

import (
	"context"
	"net/http"

	"repairorder/internal/entity"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) Register(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	id, err := h.authService.Register(ctx, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.RegisterResponse{
		Success: true,
		Message: "User registered successfully",
		UserID:  id,
	})
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	result, err := h.authService.Login(ctx, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.AuthResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// Me returns the caller's profile and resolved permissions.
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, msgNotAuthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
	defer cancel()

	profile, err := h.authService.CurrentUser(ctx, user.ID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.DataResponse{Success: true, Data: profile})
}

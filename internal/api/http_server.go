package api

import (
	"time"

	"repairorder/internal/auth"
	"repairorder/internal/config"
	"repairorder/internal/entity"
	"repairorder/internal/model"
	"repairorder/internal/service"
	"repairorder/internal/storage"

	"github.com/gin-gonic/gin"
)

// HTTPHandler serves the REST API.
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager

	authService  *service.AuthService
	orderService *service.RepairOrderService
}

// NewHTTPHandler wires the services. archive may be nil when export archiving
// is disabled.
func NewHTTPHandler(cfg config.Config, repo model.Repository, archive storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:          cfg,
		repo:         repo,
		authManager:  authManager,
		authService:  service.NewAuthService(repo, authManager),
		orderService: service.NewRepairOrderService(repo, archive),
	}, nil
}

// RegisterRoutes mounts every endpoint under group (normally /api).
func (h *HTTPHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/health", h.Health)

	authGroup := group.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", h.AuthMiddleware(), h.Me)

	orders := group.Group("/repair-orders")
	orders.Use(h.AuthMiddleware())
	orders.GET("/export/excel", h.ExportRepairOrders)
	orders.GET("", h.ListRepairOrders)
	orders.GET("/:id", h.GetRepairOrder)
	orders.POST("", h.RequirePermission(auth.PermissionCreate), h.CreateRepairOrder)
	orders.PUT("/:id", h.RequireRole(entity.UserRoleAdmin), h.UpdateRepairOrder)
	orders.DELETE("/:id", h.RequireRole(entity.UserRoleAdmin), h.DeleteRepairOrder)
}

package model

import (
	"context"

	"repairorder/internal/entity"
)

// Repository defines the persistence operations of the service.
// Lookups of missing rows return gorm.ErrRecordNotFound.
type Repository interface {
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)

	// Roles
	GetRole(ctx context.Context, name string) (*entity.DbRole, error)
	CreateRoleIfMissing(ctx context.Context, role *entity.DbRole) (bool, error)

	// Repair orders
	ListRepairOrders(ctx context.Context, params *entity.RepairOrderQuery) ([]entity.DbRepairOrder, error)
	GetRepairOrder(ctx context.Context, id uint) (*entity.DbRepairOrder, error)
	CreateRepairOrder(ctx context.Context, order *entity.DbRepairOrder) error
	UpdateRepairOrder(ctx context.Context, id uint, updates map[string]interface{}) error
	DeleteRepairOrder(ctx context.Context, id uint) error
}

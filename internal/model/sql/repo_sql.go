package sql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Ping checks database connectivity.
func (r *GormRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

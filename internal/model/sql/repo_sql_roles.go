package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"repairorder/internal/entity"

	"gorm.io/gorm"
)

// GetRole loads a role by name.
func (r *GormRepository) GetRole(ctx context.Context, name string) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var role entity.DbRole
	if err := r.db.WithContext(ctx).Where("role_name = ?", strings.TrimSpace(name)).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRoleIfMissing inserts role unless a row with the same name exists.
// It reports whether a row was created.
func (r *GormRepository) CreateRoleIfMissing(ctx context.Context, role *entity.DbRole) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if role == nil || strings.TrimSpace(role.RoleName) == "" {
		return false, fmt.Errorf("role name is empty")
	}
	var existing entity.DbRole
	err := r.db.WithContext(ctx).Where("role_name = ?", role.RoleName).First(&existing).Error
	if err == nil {
		*role = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return false, err
	}
	return true, nil
}

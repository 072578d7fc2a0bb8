package sql

import (
	"context"
	"fmt"
	"strings"

	"repairorder/internal/entity"

	"gorm.io/gorm"
)

// searchColumns are matched case-insensitively by RepairOrderQuery.Search.
var searchColumns = []string{
	"arrival_number",
	"device_name",
	"store",
	"division",
	"number_inventory",
	"serial_number",
}

// likeEscaper quotes LIKE metacharacters for use with ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListRepairOrders returns every matching order, newest arrival first unless
// params.Ascending is set. Results are not paginated.
func (r *GormRepository) ListRepairOrders(ctx context.Context, params *entity.RepairOrderQuery) ([]entity.DbRepairOrder, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbRepairOrder{})
	direction := "DESC"
	if params != nil {
		if keyword := strings.TrimSpace(params.Search); keyword != "" {
			kw := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
			clauses := make([]string, 0, len(searchColumns))
			args := make([]interface{}, 0, len(searchColumns))
			for _, column := range searchColumns {
				clauses = append(clauses, "LOWER("+column+") LIKE ? ESCAPE '!'")
				args = append(args, kw)
			}
			query = query.Where(strings.Join(clauses, " OR "), args...)
		}
		if store := strings.TrimSpace(params.Store); store != "" {
			query = query.Where("store = ?", store)
		}
		if params.ArrivalFrom != "" {
			query = query.Where("arrival_date >= ?", params.ArrivalFrom)
		}
		if params.ArrivalTo != "" {
			query = query.Where("arrival_date <= ?", params.ArrivalTo)
		}
		if params.Ascending {
			direction = "ASC"
		}
	}

	orders := make([]entity.DbRepairOrder, 0)
	if err := query.Order("arrival_date " + direction).Order("id " + direction).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetRepairOrder loads an order by ID.
func (r *GormRepository) GetRepairOrder(ctx context.Context, id uint) (*entity.DbRepairOrder, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var order entity.DbRepairOrder
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateRepairOrder inserts a new order and fills in its ID.
func (r *GormRepository) CreateRepairOrder(ctx context.Context, order *entity.DbRepairOrder) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if order == nil {
		return fmt.Errorf("repair order is nil")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// UpdateRepairOrder overwrites the given columns in a single statement.
func (r *GormRepository) UpdateRepairOrder(ctx context.Context, id uint, updates map[string]interface{}) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return gorm.ErrRecordNotFound
	}
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbRepairOrder{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRepairOrder physically removes an order.
func (r *GormRepository) DeleteRepairOrder(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return gorm.ErrRecordNotFound
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbRepairOrder{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

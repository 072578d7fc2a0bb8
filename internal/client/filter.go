package client

import (
	"strings"

	"repairorder/internal/entity"
)

// FilterOrders keeps orders whose arrival number, device name, store,
// division, inventory number or serial number contain query, ignoring case.
// A blank query returns orders unchanged.
func FilterOrders(orders []entity.DbRepairOrder, query string) []entity.DbRepairOrder {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return orders
	}
	matched := make([]entity.DbRepairOrder, 0, len(orders))
	for _, order := range orders {
		haystack := strings.ToLower(strings.Join([]string{
			order.ArrivalNumber,
			order.DeviceName,
			order.Store,
			order.Division,
			deref(order.NumberInventory),
			deref(order.SerialNumber),
		}, " "))
		if strings.Contains(haystack, needle) {
			matched = append(matched, order)
		}
	}
	return matched
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

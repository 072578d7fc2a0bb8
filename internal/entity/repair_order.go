package entity

import (
	"strings"
	"time"
)

// DbRepairOrder tracks a device from arrival for repair through its optional
// departure. Departure fields and the repair_order flag are independent of
// each other; nothing enforces an ordering between them.
type DbRepairOrder struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	ArrivalNumber   string    `gorm:"column:arrival_number;type:varchar(100);not null" json:"arrival_number"`
	ArrivalDate     Date      `gorm:"column:arrival_date;type:date;not null;index" json:"arrival_date"`
	Store           string    `gorm:"column:store;type:varchar(100);not null;index" json:"store"`
	Division        string    `gorm:"column:division;type:varchar(100);not null" json:"division"`
	DeviceName      string    `gorm:"column:device_name;type:varchar(255);not null" json:"device_name"`
	NumberInventory *string   `gorm:"column:number_inventory;type:varchar(100)" json:"number_inventory"`
	SerialNumber    *string   `gorm:"column:serial_number;type:varchar(100)" json:"serial_number"`
	Issue           *string   `gorm:"column:issue;type:text" json:"issue"`
	RepairNote      *string   `gorm:"column:repair_note;type:text" json:"repair_note"`
	DepartureDate   *Date     `gorm:"column:departure_date;type:date" json:"departure_date"`
	DepartureNumber *string   `gorm:"column:departure_number;type:varchar(100)" json:"departure_number"`
	RepairOrder     *bool     `gorm:"column:repair_order" json:"repair_order"`
	ShipAddress     *string   `gorm:"column:ship_address;type:text" json:"ship_address"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (DbRepairOrder) TableName() string {
	return "repair_orders"
}

// RepairOrderRequest is the create/update payload. Update replaces the whole
// row, so omitted optional fields are written as NULL.
type RepairOrderRequest struct {
	ArrivalNumber   string  `json:"arrival_number"`
	ArrivalDate     Date    `json:"arrival_date"`
	Store           string  `json:"store"`
	Division        string  `json:"division"`
	DeviceName      string  `json:"device_name"`
	NumberInventory *string `json:"number_inventory"`
	SerialNumber    *string `json:"serial_number"`
	Issue           *string `json:"issue"`
	RepairNote      *string `json:"repair_note"`
	DepartureDate   *Date   `json:"departure_date"`
	DepartureNumber *string `json:"departure_number"`
	RepairOrder     *bool   `json:"repair_order"`
	ShipAddress     *string `json:"ship_address"`
}

// MissingField returns the JSON name of the first blank required field.
func (r RepairOrderRequest) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"arrival_number", r.ArrivalNumber},
		{"arrival_date", string(r.ArrivalDate)},
		{"store", r.Store},
		{"division", r.Division},
		{"device_name", r.DeviceName},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return field.name
		}
	}
	return ""
}

// ToModel builds a row from the payload. Blank optional text becomes NULL.
func (r RepairOrderRequest) ToModel() DbRepairOrder {
	return DbRepairOrder{
		ArrivalNumber:   r.ArrivalNumber,
		ArrivalDate:     r.ArrivalDate,
		Store:           r.Store,
		Division:        r.Division,
		DeviceName:      r.DeviceName,
		NumberInventory: nullIfBlank(r.NumberInventory),
		SerialNumber:    nullIfBlank(r.SerialNumber),
		Issue:           nullIfBlank(r.Issue),
		RepairNote:      nullIfBlank(r.RepairNote),
		DepartureDate:   nullDateIfBlank(r.DepartureDate),
		DepartureNumber: nullIfBlank(r.DepartureNumber),
		RepairOrder:     r.RepairOrder,
		ShipAddress:     nullIfBlank(r.ShipAddress),
	}
}

// ToMap converts the payload to a full-row GORM update map.
func (r RepairOrderRequest) ToMap() map[string]interface{} {
	row := r.ToModel()
	return map[string]interface{}{
		"arrival_number":   row.ArrivalNumber,
		"arrival_date":     row.ArrivalDate,
		"store":            row.Store,
		"division":         row.Division,
		"device_name":      row.DeviceName,
		"number_inventory": nullable(row.NumberInventory),
		"serial_number":    nullable(row.SerialNumber),
		"issue":            nullable(row.Issue),
		"repair_note":      nullable(row.RepairNote),
		"departure_date":   nullableDate(row.DepartureDate),
		"departure_number": nullable(row.DepartureNumber),
		"repair_order":     nullableBool(row.RepairOrder),
		"ship_address":     nullable(row.ShipAddress),
	}
}

// RepairOrderQuery filters list and export reads.
type RepairOrderQuery struct {
	Search string
	Store  string
	// ArrivalFrom and ArrivalTo are both inclusive.
	ArrivalFrom Date
	ArrivalTo   Date
	Ascending   bool
}

type RepairOrderListResponse struct {
	Success bool            `json:"success"`
	Data    []DbRepairOrder `json:"data"`
}

type RepairOrderResponse struct {
	Success bool          `json:"success"`
	Data    DbRepairOrder `json:"data"`
}

type CreatedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

func nullIfBlank(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	v := *value
	return &v
}

func nullDateIfBlank(value *Date) *Date {
	if value == nil || strings.TrimSpace(string(*value)) == "" {
		return nil
	}
	v := *value
	return &v
}

func nullable(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func nullableDate(value *Date) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func nullableBool(value *bool) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

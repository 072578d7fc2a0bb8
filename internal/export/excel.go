// Package export renders repair orders as an xlsx workbook.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"repairorder/internal/entity"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Repair Orders"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerFill = "4472C4"
	missing    = "-"
)

type column struct {
	header string
	width  float64
	value  func(index int, order *entity.DbRepairOrder) interface{}
}

var columns = []column{
	{"No", 5, func(i int, _ *entity.DbRepairOrder) interface{} { return i + 1 }},
	{"Nomor SJ", 15, func(_ int, o *entity.DbRepairOrder) interface{} { return o.ArrivalNumber }},
	{"Tanggal", 12, func(_ int, o *entity.DbRepairOrder) interface{} { return formatDate(&o.ArrivalDate) }},
	{"Toko", 15, func(_ int, o *entity.DbRepairOrder) interface{} { return o.Store }},
	{"Divisi", 15, func(_ int, o *entity.DbRepairOrder) interface{} { return o.Division }},
	{"Nama Perangkat", 20, func(_ int, o *entity.DbRepairOrder) interface{} { return o.DeviceName }},
	{"Nomor Inventaris", 15, func(_ int, o *entity.DbRepairOrder) interface{} { return text(o.NumberInventory) }},
	{"Nomor Seri", 15, func(_ int, o *entity.DbRepairOrder) interface{} { return text(o.SerialNumber) }},
	{"Kasus Permasalahan", 25, func(_ int, o *entity.DbRepairOrder) interface{} { return text(o.Issue) }},
	{"Catatan Perbaikan", 25, func(_ int, o *entity.DbRepairOrder) interface{} { return text(o.RepairNote) }},
	{"Tanggal Kirim", 12, func(_ int, o *entity.DbRepairOrder) interface{} { return formatDate(o.DepartureDate) }},
	{"Nomor SJ Kirim", 15, func(_ int, o *entity.DbRepairOrder) interface{} { return text(o.DepartureNumber) }},
	{"Repair Order", 12, func(_ int, o *entity.DbRepairOrder) interface{} { return yesNo(o.RepairOrder) }},
	{"Pengirim", 25, func(_ int, o *entity.DbRepairOrder) interface{} { return text(o.ShipAddress) }},
}

// Headers returns the column titles in sheet order.
func Headers() []string {
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}
	return headers
}

// Render builds the workbook for orders, in the order given.
func Render(orders []entity.DbRepairOrder) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", name, err)
		}
		header[i] = col.header
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i := range orders {
		row := make([]interface{}, len(columns))
		for c, col := range columns {
			row[c] = col.value(i, &orders[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns Repair_Orders_<year>-<MM>[_<store>].xlsx. An empty store
// or "all" yields the unscoped name.
func FileName(year, month int, store string) string {
	name := fmt.Sprintf("Repair_Orders_%d-%02d", year, month)
	store = strings.TrimSpace(store)
	if store != "" && !strings.EqualFold(store, "all") {
		name += "_" + strings.NewReplacer(`"`, "", "/", "-", `\`, "-").Replace(store)
	}
	return name + ".xlsx"
}

// formatDate renders D/M/YYYY without zero padding. Unparseable values are
// returned as stored.
func formatDate(d *entity.Date) string {
	if d == nil || strings.TrimSpace(string(*d)) == "" {
		return missing
	}
	t, ok := d.Time()
	if !ok {
		return string(*d)
	}
	return strconv.Itoa(t.Day()) + "/" + strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Year())
}

func text(value *string) string {
	if value == nil || *value == "" {
		return missing
	}
	return *value
}

func yesNo(value *bool) string {
	if value != nil && *value {
		return "Yes"
	}
	return "No"
}

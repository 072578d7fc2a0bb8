package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"repairorder/internal/auth"
	"repairorder/internal/entity"
	"repairorder/internal/export"
	"repairorder/internal/model/modeltest"
	"repairorder/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type recordingArchive struct {
	saved []storage.SaveOptions
	err   error
}

func (a *recordingArchive) Save(_ context.Context, data []byte, opts storage.SaveOptions) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.saved = append(a.saved, opts)
	return "exports/" + opts.FileName, nil
}

func strPtr(s string) *string { return &s }

func orderRequest(number, date, store string) entity.RepairOrderRequest {
	return entity.RepairOrderRequest{
		ArrivalNumber: number,
		ArrivalDate:   entity.Date(date),
		Store:         store,
		Division:      "IT",
		DeviceName:    "Printer",
	}
}

var (
	adminIdentity = auth.Identity{ID: 1, Username: "admin", Role: entity.UserRoleAdmin}
	userIdentity  = auth.Identity{ID: 2, Username: "user", Role: entity.UserRoleUser}
)

func TestCreateGetRoundTrip(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	departure := entity.Date("2024-03-10")
	repaired := true
	req := orderRequest("SJ-100", "2024-03-01", "Toko A")
	req.NumberInventory = strPtr("INV-1")
	req.SerialNumber = strPtr("SN-1")
	req.Issue = strPtr("Paper jam")
	req.RepairNote = strPtr("Replaced roller")
	req.DepartureDate = &departure
	req.DepartureNumber = strPtr("SJK-1")
	req.RepairOrder = &repaired
	req.ShipAddress = strPtr("Gudang Pusat")

	id, err := svc.Create(ctx, req)
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SJ-100", got.ArrivalNumber)
	assert.Equal(t, entity.Date("2024-03-01"), got.ArrivalDate)
	assert.Equal(t, "Toko A", got.Store)
	assert.Equal(t, "IT", got.Division)
	assert.Equal(t, "Printer", got.DeviceName)
	assert.Equal(t, "INV-1", *got.NumberInventory)
	assert.Equal(t, "SN-1", *got.SerialNumber)
	assert.Equal(t, "Paper jam", *got.Issue)
	assert.Equal(t, "Replaced roller", *got.RepairNote)
	assert.Equal(t, departure, *got.DepartureDate)
	assert.Equal(t, "SJK-1", *got.DepartureNumber)
	assert.True(t, *got.RepairOrder)
	assert.Equal(t, "Gudang Pusat", *got.ShipAddress)

	sparseID, err := svc.Create(ctx, orderRequest("SJ-101", "2024-03-02", "Toko A"))
	require.NoError(t, err)
	sparse, err := svc.Get(ctx, sparseID)
	require.NoError(t, err)
	assert.Nil(t, sparse.NumberInventory)
	assert.Nil(t, sparse.DepartureDate)
	assert.Nil(t, sparse.RepairOrder)
	assert.Nil(t, sparse.ShipAddress)
}

func TestCreateRequiresFields(t *testing.T) {
	repo := modeltest.NewRepository(t)
	svc := NewRepairOrderService(repo, nil)
	ctx := context.Background()

	req := orderRequest("SJ-1", "2024-03-01", "")
	_, err := svc.Create(ctx, req)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "store is required", err.Error())

	orders, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListAfterCreatesAndDelete(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	dates := []string{"2024-01-15", "2024-03-01", "2024-02-10", "2024-04-20"}
	ids := make([]uint, 0, len(dates))
	for i, date := range dates {
		id, err := svc.Create(ctx, orderRequest("SJ-"+string(rune('A'+i)), date, "Toko A"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, svc.Delete(ctx, ids[1]))

	orders, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, orders, len(dates)-1)
	for i := 1; i < len(orders); i++ {
		assert.GreaterOrEqual(t, string(orders[i-1].ArrivalDate), string(orders[i].ArrivalDate))
	}

	err = svc.Delete(ctx, ids[1])
	assert.True(t, IsKind(err, KindNotFound))
}

func TestGetUpdateDeleteNotFound(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 404)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "Repair order not found", err.Error())

	err = svc.Update(ctx, 404, orderRequest("SJ", "2024-01-01", "Toko"))
	assert.True(t, IsKind(err, KindNotFound))

	err = svc.Delete(ctx, 404)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestUpdateReplacesRow(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	req := orderRequest("SJ-1", "2024-03-01", "Toko A")
	req.Issue = strPtr("Broken")
	id, err := svc.Create(ctx, req)
	require.NoError(t, err)

	update := orderRequest("SJ-1", "2024-03-05", "Toko B")
	require.NoError(t, svc.Update(ctx, id, update))

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Toko B", got.Store)
	assert.Equal(t, entity.Date("2024-03-05"), got.ArrivalDate)
	assert.Nil(t, got.Issue)
}

func TestExportPermissions(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	_, err := svc.Export(ctx, userIdentity, ExportRequest{Year: "2024", Month: "3"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPermission))
	assert.Equal(t, "Only admin can export all stores. Please select a specific store.", err.Error())

	_, err = svc.Export(ctx, userIdentity, ExportRequest{Year: "2024", Month: "3", Store: "all"})
	assert.True(t, IsKind(err, KindPermission))

	_, err = svc.Export(ctx, userIdentity, ExportRequest{Year: "2024", Month: "3", Store: "Toko A"})
	assert.NoError(t, err)
}

func TestExportValidation(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	for _, req := range []ExportRequest{
		{Month: "3"},
		{Year: "2024"},
	} {
		_, err := svc.Export(ctx, adminIdentity, req)
		assert.True(t, IsKind(err, KindValidation))
		assert.Equal(t, "Year and month are required", err.Error())
	}

	for _, req := range []ExportRequest{
		{Year: "abc", Month: "3"},
		{Year: "2024", Month: "13"},
		{Year: "2024", Month: "0"},
	} {
		_, err := svc.Export(ctx, adminIdentity, req)
		assert.True(t, IsKind(err, KindValidation), "request %+v", req)
	}
}

func TestExportMonthAscending(t *testing.T) {
	archive := &recordingArchive{}
	svc := NewRepairOrderService(modeltest.NewRepository(t), archive)
	ctx := context.Background()

	for _, seed := range []struct{ number, date, store string }{
		{"SJ-FEB", "2024-02-29", "Toko A"},
		{"SJ-LATE", "2024-03-31", "Toko B"},
		{"SJ-EARLY", "2024-03-01", "Toko A"},
		{"SJ-MID", "2024-03-15", "Toko A"},
		{"SJ-APR", "2024-04-01", "Toko A"},
	} {
		_, err := svc.Create(ctx, orderRequest(seed.number, seed.date, seed.store))
		require.NoError(t, err)
	}

	result, err := svc.Export(ctx, adminIdentity, ExportRequest{Year: "2024", Month: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Repair_Orders_2024-03.xlsx", result.FileName)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, "exports/Repair_Orders_2024-03.xlsx", result.ArchiveKey)
	require.Len(t, archive.saved, 1)
	assert.Equal(t, storage.CategoryExports, archive.saved[0].Category)
	assert.Equal(t, export.ContentType, archive.saved[0].ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "SJ-EARLY", rows[1][1])
	assert.Equal(t, "SJ-MID", rows[2][1])
	assert.Equal(t, "SJ-LATE", rows[3][1])

	scoped, err := svc.Export(ctx, userIdentity, ExportRequest{Year: "2024", Month: "03", Store: "Toko A"})
	require.NoError(t, err)
	assert.Equal(t, "Repair_Orders_2024-03_Toko A.xlsx", scoped.FileName)
	assert.Equal(t, 2, scoped.Rows)
}

func TestExportLastMonthOfYear(t *testing.T) {
	svc := NewRepairOrderService(modeltest.NewRepository(t), nil)
	ctx := context.Background()

	for _, seed := range []struct{ number, date string }{
		{"SJ-DEC-1", "9999-12-01"},
		{"SJ-DEC-31", "9999-12-31"},
		{"SJ-NOV", "9999-11-30"},
		{"SJ-2023", "2023-12-05"},
	} {
		_, err := svc.Create(ctx, orderRequest(seed.number, seed.date, "Toko A"))
		require.NoError(t, err)
	}

	result, err := svc.Export(ctx, adminIdentity, ExportRequest{Year: "9999", Month: "12", Store: "Toko A"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	result, err = svc.Export(ctx, adminIdentity, ExportRequest{Year: "2023", Month: "12"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
}

func TestExportArchiveFailureIsIgnored(t *testing.T) {
	archive := &recordingArchive{err: errors.New("bucket unavailable")}
	svc := NewRepairOrderService(modeltest.NewRepository(t), archive)

	result, err := svc.Export(context.Background(), adminIdentity, ExportRequest{Year: "2024", Month: "1"})
	require.NoError(t, err)
	assert.Empty(t, result.ArchiveKey)
	assert.NotEmpty(t, result.Data)
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := storeError("Error creating repair order", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error creating repair order: disk full", err.Error())
	assert.Equal(t, "store", KindStore.String())
}

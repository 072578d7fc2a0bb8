package sql_test

import (
	"context"
	"errors"
	"testing"

	"repairorder/internal/entity"
	"repairorder/internal/model/modeltest"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newOrder(number, date, store string) *entity.DbRepairOrder {
	return &entity.DbRepairOrder{
		ArrivalNumber: number,
		ArrivalDate:   entity.Date(date),
		Store:         store,
		Division:      "IT",
		DeviceName:    "Printer " + number,
	}
}

func TestRepairOrderCRUD(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()

	order := newOrder("SJ-001", "2024-03-15", "Store A")
	order.SerialNumber = strPtr("SN-123")
	if err := repo.CreateRepairOrder(ctx, order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	loaded, err := repo.GetRepairOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.ArrivalDate != "2024-03-15" {
		t.Errorf("expected arrival date 2024-03-15, got %q", loaded.ArrivalDate)
	}
	if loaded.SerialNumber == nil || *loaded.SerialNumber != "SN-123" {
		t.Errorf("expected serial number SN-123, got %v", loaded.SerialNumber)
	}
	if loaded.Issue != nil {
		t.Errorf("expected issue to be NULL, got %v", *loaded.Issue)
	}

	updates := entity.RepairOrderRequest{
		ArrivalNumber: "SJ-001",
		ArrivalDate:   "2024-03-16",
		Store:         "Store A",
		Division:      "IT",
		DeviceName:    "Printer",
	}.ToMap()
	if err := repo.UpdateRepairOrder(ctx, order.ID, updates); err != nil {
		t.Fatalf("update: %v", err)
	}
	loaded, err = repo.GetRepairOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if loaded.SerialNumber != nil {
		t.Errorf("expected full-row update to clear serial number, got %v", *loaded.SerialNumber)
	}
	if loaded.ArrivalDate != "2024-03-16" {
		t.Errorf("expected arrival date 2024-03-16, got %q", loaded.ArrivalDate)
	}

	if err := repo.DeleteRepairOrder(ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetRepairOrder(ctx, order.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found after delete, got %v", err)
	}
}

func TestUpdateAndDeleteMissingOrder(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()

	err := repo.UpdateRepairOrder(ctx, 999, map[string]interface{}{"store": "X"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := repo.DeleteRepairOrder(ctx, 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestListRepairOrdersFilters(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()

	seeds := []*entity.DbRepairOrder{
		newOrder("SJ-001", "2024-02-28", "Store A"),
		newOrder("SJ-002", "2024-03-20", "Store A"),
		newOrder("SJ-003", "2024-03-01", "Store B"),
		newOrder("SJ-004", "2024-04-01", "Store A"),
	}
	seeds[2].NumberInventory = strPtr("INV-Laptop-9")
	for _, order := range seeds {
		if err := repo.CreateRepairOrder(ctx, order); err != nil {
			t.Fatalf("create %s: %v", order.ArrivalNumber, err)
		}
	}

	all, err := repo.ListRepairOrders(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	gotNumbers := make([]string, 0, len(all))
	for _, order := range all {
		gotNumbers = append(gotNumbers, order.ArrivalNumber)
	}
	wantNumbers := []string{"SJ-004", "SJ-002", "SJ-003", "SJ-001"}
	for i := range wantNumbers {
		if gotNumbers[i] != wantNumbers[i] {
			t.Fatalf("expected descending order %v, got %v", wantNumbers, gotNumbers)
		}
	}

	march, err := repo.ListRepairOrders(ctx, &entity.RepairOrderQuery{
		ArrivalFrom: "2024-03-01",
		ArrivalTo:   "2024-03-31",
		Ascending:   true,
	})
	if err != nil {
		t.Fatalf("list march: %v", err)
	}
	if len(march) != 2 || march[0].ArrivalNumber != "SJ-003" || march[1].ArrivalNumber != "SJ-002" {
		t.Fatalf("unexpected march rows: %+v", march)
	}

	storeB, err := repo.ListRepairOrders(ctx, &entity.RepairOrderQuery{Store: "Store B"})
	if err != nil {
		t.Fatalf("list store: %v", err)
	}
	if len(storeB) != 1 || storeB[0].ArrivalNumber != "SJ-003" {
		t.Fatalf("unexpected store rows: %+v", storeB)
	}

	searched, err := repo.ListRepairOrders(ctx, &entity.RepairOrderQuery{Search: "laptop"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(searched) != 1 || searched[0].ArrivalNumber != "SJ-003" {
		t.Fatalf("unexpected search rows: %+v", searched)
	}
}

func TestUsersAndRoles(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()

	user := &entity.DbUser{Username: "andi", PasswordHash: "hash", Role: entity.UserRoleUser}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	dup := &entity.DbUser{Username: "andi", PasswordHash: "hash", Role: entity.UserRoleUser}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}

	byName, err := repo.GetUserByUsername(ctx, "andi")
	if err != nil || byName.ID != user.ID {
		t.Fatalf("expected to find user by name, got %v / %v", byName, err)
	}
	if _, err := repo.GetUserByID(ctx, 12345); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	role := &entity.DbRole{RoleName: "technician", CanView: true}
	created, err := repo.CreateRoleIfMissing(ctx, role)
	if err != nil || !created {
		t.Fatalf("expected role to be created, got created=%v err=%v", created, err)
	}
	again := &entity.DbRole{RoleName: "technician", CanView: true, CanCreate: true}
	created, err = repo.CreateRoleIfMissing(ctx, again)
	if err != nil || created {
		t.Fatalf("expected existing role to be kept, got created=%v err=%v", created, err)
	}
	if again.CanCreate {
		t.Fatal("expected stored flags to win over the seed")
	}

	loaded, err := repo.GetRole(ctx, "technician")
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if loaded.CanCreate || !loaded.CanView {
		t.Fatalf("unexpected role flags: %+v", loaded)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestListRepairOrdersSearchIsLiteral(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()

	for _, number := range []string{"SJ-001", "SJ-002", "SJ_100%", "RMA!7"} {
		if err := repo.CreateRepairOrder(ctx, newOrder(number, "2024-03-15", "Store A")); err != nil {
			t.Fatalf("create %s: %v", number, err)
		}
	}

	tests := map[string][]string{
		"%":     {"SJ_100%"},
		"_":     {"SJ_100%"},
		"sj_1":  {"SJ_100%"},
		"SJ_00": nil,
		"!":     {"RMA!7"},
		"!%":    nil,
		"sj-00": {"SJ-002", "SJ-001"},
	}
	for search, want := range tests {
		got, err := repo.ListRepairOrders(ctx, &entity.RepairOrderQuery{Search: search})
		if err != nil {
			t.Fatalf("search %q: %v", search, err)
		}
		if len(got) != len(want) {
			t.Fatalf("search %q: expected %v, got %d rows", search, want, len(got))
		}
		for i := range want {
			if got[i].ArrivalNumber != want[i] {
				t.Fatalf("search %q: expected %v at %d, got %s", search, want[i], i, got[i].ArrivalNumber)
			}
		}
	}
}

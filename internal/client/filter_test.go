package client

import (
	"testing"

	"repairorder/internal/entity"
)

func TestFilterOrders(t *testing.T) {
	serial := "SN-ABC-77"
	orders := []entity.DbRepairOrder{
		{ArrivalNumber: "SJ-001", DeviceName: "Printer Epson", Store: "Toko Bandung", Division: "Kasir"},
		{ArrivalNumber: "SJ-002", DeviceName: "Laptop", Store: "Toko Jakarta", Division: "IT", SerialNumber: &serial},
		{ArrivalNumber: "SJ-003", DeviceName: "Scanner", Store: "Toko Bandung", Division: "Gudang"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"SJ-001", "SJ-002", "SJ-003"}},
		{"bandung", []string{"SJ-001", "SJ-003"}},
		{"EPSON", []string{"SJ-001"}},
		{"abc-77", []string{"SJ-002"}},
		{"  gudang ", []string{"SJ-003"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		got := FilterOrders(orders, tt.query)
		if len(got) != len(tt.want) {
			t.Fatalf("query %q: expected %d orders, got %d", tt.query, len(tt.want), len(got))
		}
		for i, order := range got {
			if order.ArrivalNumber != tt.want[i] {
				t.Errorf("query %q: expected %s at %d, got %s", tt.query, tt.want[i], i, order.ArrivalNumber)
			}
		}
	}
}

func TestSessionCanEdit(t *testing.T) {
	var nilSession *Session
	if nilSession.CanEdit() || nilSession.LoggedIn() {
		t.Fatal("nil session must not be able to edit")
	}
	admin := &Session{Token: "t", User: &entity.UserSummary{Role: entity.UserRoleAdmin}}
	if !admin.CanEdit() {
		t.Fatal("admin session should be able to edit")
	}
	user := &Session{Token: "t", User: &entity.UserSummary{Role: entity.UserRoleUser}}
	if user.CanEdit() {
		t.Fatal("user session must not be able to edit")
	}
}

func TestSessionStoreMissingFile(t *testing.T) {
	store := NewSessionStore(t.TempDir() + "/nested/session.json")
	session, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if session.LoggedIn() {
		t.Fatal("expected empty session")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear on missing file: %v", err)
	}
}

package service_test

import (
	"testing"
	"time"

	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func adminScope() scope.Scope {
	return scope.Scope{UserID: "u1", Email: "admin@test", Role: scope.RoleAdmin, Branch: scope.AllBranches}
}

func staffScope() scope.Scope {
	return scope.Scope{UserID: "u2", Email: "staff@test", Role: scope.RoleStaff, Branch: "Downtown"}
}

func alertIDs(alerts []service.Alert) []string {
	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return ids
}

func TestBuildAlerts_LowStock(t *testing.T) {
	items := []repository.InventoryItem{
		{Name: "Gloves", Branch: "Downtown", Quantity: 2, ReorderLevel: 10},
		{Name: "Masks", Branch: "Downtown", Quantity: 50, ReorderLevel: 10},
	}

	alerts := service.BuildAlerts(items, nil, adminScope(), testNow)

	require.Len(t, alerts, 1)
	assert.Equal(t, "low-stock-Downtown-Gloves", alerts[0].ID)
	assert.Equal(t, service.AlertLowStock, alerts[0].Type)
	assert.Equal(t, service.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, "Downtown", alerts[0].Branch)
}

func TestBuildAlerts_ZeroReorderLevelNeverAlerts(t *testing.T) {
	items := []repository.InventoryItem{
		{Name: "Samples", Branch: "Downtown", Quantity: 0, ReorderLevel: 0},
	}

	alerts := service.BuildAlerts(items, nil, adminScope(), testNow)
	assert.Empty(t, alerts)
}

func TestBuildAlerts_DeterministicIDs(t *testing.T) {
	items := []repository.InventoryItem{
		{Name: "Gloves", Branch: "Uptown", Quantity: 1, ReorderLevel: 5},
	}

	first := service.BuildAlerts(items, nil, adminScope(), testNow)
	second := service.BuildAlerts(items, nil, adminScope(), testNow.Add(time.Hour))

	assert.Equal(t, alertIDs(first), alertIDs(second))
}

func TestBuildAlerts_ExpiryWindow(t *testing.T) {
	tests := []struct {
		name   string
		expiry string
		want   bool
	}{
		{"inside window", "2025-07-01", true},
		{"on boundary", "2025-07-15", true},
		{"outside window", "2025-09-01", false},
		{"already expired", "2025-01-01", true},
		{"rfc3339 timestamp", "2025-06-20T00:00:00Z", true},
		{"unparseable", "soon", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []repository.InventoryItem{
				{Name: "Etchant", Branch: "Downtown", Quantity: 100, ExpiryDate: tt.expiry},
			}
			alerts := service.BuildAlerts(items, nil, adminScope(), testNow)
			if tt.want {
				require.Len(t, alerts, 1)
				assert.Equal(t, "expiry-Downtown-Etchant", alerts[0].ID)
				assert.Equal(t, service.SeverityMedium, alerts[0].Severity)
			} else {
				assert.Empty(t, alerts)
			}
		})
	}
}

func TestBuildAlerts_BranchAggregate(t *testing.T) {
	items := []repository.InventoryItem{
		{Name: "A", Branch: "Downtown", Quantity: 1, ReorderLevel: 5},
		{Name: "B", Branch: "Downtown", Quantity: 1, ReorderLevel: 5},
		{Name: "C", Branch: "Downtown", Quantity: 1, ReorderLevel: 5},
		{Name: "D", Branch: "Uptown", Quantity: 1, ReorderLevel: 5},
	}

	alerts := service.BuildAlerts(items, nil, adminScope(), testNow)
	ids := alertIDs(alerts)

	assert.Contains(t, ids, "branch-low-Downtown")
	assert.NotContains(t, ids, "branch-low-Uptown", "needs at least three low items")
}

func TestBuildAlerts_PendingOrdersManagementOnly(t *testing.T) {
	pending := []repository.Order{
		{ID: "ord-1", ItemName: "Gloves", Branch: "Downtown", Quantity: 10},
	}

	adminAlerts := service.BuildAlerts(nil, pending, adminScope(), testNow)
	require.Len(t, adminAlerts, 1)
	assert.Equal(t, "order-ord-1", adminAlerts[0].ID)
	assert.Equal(t, service.SeverityInfo, adminAlerts[0].Severity)
	assert.Equal(t, "orders", adminAlerts[0].ActionLink)

	staffAlerts := service.BuildAlerts(nil, pending, staffScope(), testNow)
	assert.Empty(t, staffAlerts)
}

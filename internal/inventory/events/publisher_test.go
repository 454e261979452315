package events_test

import (
	"context"
	"testing"

	"github.com/premierlux/premierlux-backend/internal/inventory/events"
	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/stretchr/testify/assert"
)

func TestPublisher_BrokerUnavailableIsNoOp(t *testing.T) {
	// the API runs without RabbitMQ; a publisher built over the absent
	// broker connection must swallow every emit
	pub := events.NewPublisher(nil, logger.New("test", "development"))

	adj := &repository.Adjustment{
		Item:         &repository.InventoryItem{ID: "i1", Name: "Gloves", Branch: "Downtown", Quantity: 20},
		AppliedDelta: -10,
		Direction:    "out",
	}
	sc := scope.Scope{UserID: "u1", Email: "admin@test", Role: scope.RoleAdmin, Branch: scope.AllBranches}

	assert.NotPanics(t, func() {
		pub.StockAdjusted(context.Background(), adj, sc)
		pub.BatchReceived(context.Background(), &repository.Batch{BatchNumber: "BTN-1"}, sc)
		pub.AlertGenerated(context.Background(), "low-stock-Downtown-Gloves", "low_stock", "high", "Low stock", "", "Downtown")
	})
}

func TestPublisher_NilReceiverIsNoOp(t *testing.T) {
	var pub *events.Publisher

	assert.NotPanics(t, func() {
		pub.StockAdjusted(context.Background(), &repository.Adjustment{Item: &repository.InventoryItem{}}, scope.Scope{})
	})
}

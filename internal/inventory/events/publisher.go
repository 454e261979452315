// Package events publishes inventory domain events.
package events

import (
	"context"
	"time"

	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/messaging"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

const source = "inventory-service"

// Publisher publishes inventory-related events. A nil Publisher, or one
// wrapping a nil broker connection, is safe to call; events are simply not
// emitted when the broker is unavailable.
type Publisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewPublisher creates a new inventory event publisher
func NewPublisher(pub *messaging.Publisher, log *logger.Logger) *Publisher {
	return &Publisher{
		publisher: pub,
		logger:    log.WithComponent("inventory-events"),
	}
}

// StockAdjusted announces a stock quantity change
func (p *Publisher) StockAdjusted(ctx context.Context, adj *repository.Adjustment, sc scope.Scope) {
	if p == nil || p.publisher == nil {
		return
	}

	data := messaging.StockAdjustedEvent{
		ItemID:       adj.Item.ID,
		ItemName:     adj.Item.Name,
		Branch:       adj.Item.Branch,
		Delta:        adj.AppliedDelta,
		NewQuantity:  adj.Item.Quantity,
		Direction:    adj.Direction,
		AdjustedBy:   sc.Email,
		AdjustedAt:   time.Now().UTC(),
		ReorderLevel: adj.Item.ReorderLevel,
	}

	if err := p.publisher.PublishEvent(ctx, messaging.ExchangeInventory, messaging.EventStockAdjusted, source, data); err != nil {
		p.logger.Error().Err(err).Str("item_id", adj.Item.ID).Msg("failed to publish stock adjusted event")
	}
}

// BatchReceived announces a new batch
func (p *Publisher) BatchReceived(ctx context.Context, b *repository.Batch, sc scope.Scope) {
	if p == nil || p.publisher == nil {
		return
	}

	data := messaging.BatchReceivedEvent{
		BatchID:     b.ID,
		BatchNumber: b.BatchNumber,
		ProductName: b.ProductName,
		Branch:      b.Branch,
		Quantity:    b.Quantity,
		ExpiryDate:  b.ExpiryDate,
		ReceivedBy:  sc.Email,
		ReceivedAt:  time.Now().UTC(),
	}

	if err := p.publisher.PublishEvent(ctx, messaging.ExchangeInventory, messaging.EventBatchReceived, source, data); err != nil {
		p.logger.Error().Err(err).Str("batch", b.BatchNumber).Msg("failed to publish batch received event")
	}
}

// AlertGenerated announces a newly surfaced alert
func (p *Publisher) AlertGenerated(ctx context.Context, alertID, alertType, severity, title, message, branch string) {
	if p == nil || p.publisher == nil {
		return
	}

	data := messaging.AlertGeneratedEvent{
		AlertID:  alertID,
		Type:     alertType,
		Severity: severity,
		Title:    title,
		Message:  message,
		Branch:   branch,
	}

	if err := p.publisher.PublishEvent(ctx, messaging.ExchangeInventory, messaging.EventAlertGenerated, source, data); err != nil {
		p.logger.Error().Err(err).Str("alert_id", alertID).Msg("failed to publish alert generated event")
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/config"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Alert types
const (
	AlertLowStock       = "low_stock"
	AlertExpiryRisk     = "expiry_risk"
	AlertBranchLowStock = "branch_low_stock"
	AlertPendingRequest = "pending_request"
)

// Alert severities
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityInfo   = "info"
)

const expiryWindowDays = 30

// Alert is a computed condition surfaced to users. Alerts are derived on
// read, never stored; the ID is deterministic so acknowledgements survive
// recomputation.
type Alert struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Branch      string `json:"branch,omitempty"`
	ActionLink  string `json:"action_link,omitempty"`
}

// BuildAlerts derives the full alert set from current inventory and pending
// orders. Items are assumed to already be filtered to the caller's
// visibility. Pending order alerts only surface for management roles.
func BuildAlerts(items []repository.InventoryItem, pending []repository.Order, sc scope.Scope, now time.Time) []Alert {
	alerts := []Alert{}
	lowByBranch := map[string]int{}

	for _, item := range items {
		if item.ReorderLevel > 0 && item.Quantity <= item.ReorderLevel {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("low-stock-%s-%s", item.Branch, item.Name),
				Type:        AlertLowStock,
				Severity:    SeverityHigh,
				Title:       fmt.Sprintf("Low stock: %s", item.Name),
				Description: fmt.Sprintf("%d units left (Reorder: %d) in %s.", item.Quantity, item.ReorderLevel, item.Branch),
				Branch:      item.Branch,
			})
			lowByBranch[item.Branch]++
		}

		if expiryWithinDays(item.ExpiryDate, expiryWindowDays, now) {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("expiry-%s-%s", item.Branch, item.Name),
				Type:        AlertExpiryRisk,
				Severity:    SeverityMedium,
				Title:       fmt.Sprintf("Expiry Risk: %s", item.Name),
				Description: fmt.Sprintf("Batch expiring soon in %s.", item.Branch),
				Branch:      item.Branch,
			})
		}
	}

	for branch, count := range lowByBranch {
		if count >= 3 {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("branch-low-%s", branch),
				Type:        AlertBranchLowStock,
				Severity:    SeverityHigh,
				Title:       fmt.Sprintf("Branch Alert: %s", branch),
				Description: fmt.Sprintf("%d items are low on stock in %s.", count, branch),
				Branch:      branch,
			})
		}
	}

	if sc.IsManagement() {
		for _, order := range pending {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("order-%s", order.ID),
				Type:        AlertPendingRequest,
				Severity:    SeverityInfo,
				Title:       fmt.Sprintf("New Request: %s", order.ItemName),
				Description: fmt.Sprintf("Staff at %s requested %d units.", order.Branch, order.Quantity),
				Branch:      order.Branch,
				ActionLink:  "orders",
			})
		}
	}

	return alerts
}

// expiryWithinDays reports whether the date string falls inside the window.
// Unparseable or empty dates never alert.
func expiryWithinDays(value string, days int, now time.Time) bool {
	if value == "" {
		return false
	}

	expiry, err := time.Parse("2006-01-02", value)
	if err != nil {
		expiry, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return false
		}
	}

	return !expiry.After(now.AddDate(0, 0, days))
}

// ActiveAlerts computes the alert set for the caller, minus anything they
// have already acknowledged. Under the reset policy, the caller's
// acknowledgements for conditions that have cleared are pruned so a
// recurrence alerts again.
func (s *InventoryService) ActiveAlerts(ctx context.Context, sc scope.Scope) ([]Alert, error) {
	items, err := s.items.List(ctx, sc, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}

	pending := []repository.Order{}
	if sc.IsManagement() {
		pending, err = s.orders.ListPending(ctx, sc)
		if err != nil {
			return nil, err
		}
	}

	alerts := BuildAlerts(items, pending, sc, time.Now())

	if s.ackPolicy == config.AckPolicyReset {
		activeIDs := make([]string, len(alerts))
		for i, a := range alerts {
			activeIDs[i] = a.ID
		}
		if err := s.acks.PruneStale(ctx, sc.UserID, activeIDs); err != nil {
			s.logger.Warn().Err(err).Msg("failed to prune stale acknowledgements")
		}
	}

	acked, err := s.acks.AcknowledgedIDs(ctx, sc.UserID)
	if err != nil {
		return nil, err
	}

	visible := []Alert{}
	for _, a := range alerts {
		if !acked[a.ID] {
			visible = append(visible, a)
		}
	}

	return visible, nil
}

// AcknowledgeAlert dismisses an alert for the calling user only
func (s *InventoryService) AcknowledgeAlert(ctx context.Context, sc scope.Scope, alertID string) error {
	return s.acks.Acknowledge(ctx, sc.UserID, alertID)
}

package service

import (
	"context"
	"math"

	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Recommendation is the reorder engine's verdict for one item
type Recommendation struct {
	ItemID            string  `json:"item_id"`
	ItemName          string  `json:"item_name"`
	Branch            string  `json:"branch"`
	Quantity          int     `json:"quantity"`
	ReorderLevel      int     `json:"reorder_level"`
	ReorderPoint      float64 `json:"reorder_point"`
	Trigger           float64 `json:"trigger"`
	TargetLevel       float64 `json:"target_level"`
	SuggestedQuantity int     `json:"suggested_quantity"`
	Supplier          string  `json:"supplier"`
	NeedsReorder      bool    `json:"needs_reorder"`
}

// Recommend evaluates one item against its usage profile. The reorder point
// is demand over the lead time plus safety stock; the static reorder level
// acts as a floor. The target keeps a week of cover beyond the lead time.
// Items created without a usage profile fall back to one unit per day, a
// seven day lead time, and the reorder level as safety stock.
func Recommend(item repository.InventoryItem) Recommendation {
	usage := item.AvgDailyUsage
	if usage <= 0 {
		usage = 1
	}
	leadTime := item.LeadTimeDays
	if leadTime <= 0 {
		leadTime = 7
	}
	safetyStock := float64(item.SafetyStock)
	if item.SafetyStock <= 0 {
		safetyStock = float64(item.ReorderLevel)
	}

	reorderPoint := usage*float64(leadTime) + safetyStock

	trigger := reorderPoint
	if float64(item.ReorderLevel) > trigger {
		trigger = float64(item.ReorderLevel)
	}

	target := usage*float64(leadTime+7) + safetyStock

	suggested := int(math.Round(target - float64(item.Quantity)))
	if suggested < 0 {
		suggested = 0
	}

	return Recommendation{
		ItemID:            item.ID,
		ItemName:          item.Name,
		Branch:            item.Branch,
		Quantity:          item.Quantity,
		ReorderLevel:      item.ReorderLevel,
		ReorderPoint:      reorderPoint,
		Trigger:           trigger,
		TargetLevel:       target,
		SuggestedQuantity: suggested,
		Supplier:          item.Supplier,
		NeedsReorder:      float64(item.Quantity) <= trigger,
	}
}

// ReorderSuggestions evaluates every visible item and returns those that
// need reordering. Items already at or above their target level are left
// out even when the trigger fires; a zero suggestion is not actionable.
func (s *InventoryService) ReorderSuggestions(ctx context.Context, sc scope.Scope, branch string) ([]Recommendation, error) {
	items, err := s.items.List(ctx, sc, repository.ItemFilter{Branch: branch})
	if err != nil {
		return nil, err
	}

	suggestions := []Recommendation{}
	for _, item := range items {
		rec := Recommend(item)
		if rec.NeedsReorder && rec.SuggestedQuantity > 0 {
			suggestions = append(suggestions, rec)
		}
	}

	return suggestions, nil
}

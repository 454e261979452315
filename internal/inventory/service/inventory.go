// Package service implements the inventory domain logic.
package service

import (
	"context"
	"time"

	"github.com/premierlux/premierlux-backend/internal/inventory/events"
	"github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/logger"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// InventoryService orchestrates inventory operations
type InventoryService struct {
	items       *repository.ItemRepository
	batches     *repository.BatchRepository
	orders      *repository.OrderRepository
	suppliers   *repository.SupplierRepository
	branches    *repository.BranchRepository
	consumption *repository.ConsumptionRepository
	acks        *repository.AcknowledgementRepository
	publisher   *events.Publisher
	logger      *logger.Logger
	ackPolicy   string
}

// Deps bundles the service's dependencies
type Deps struct {
	Items       *repository.ItemRepository
	Batches     *repository.BatchRepository
	Orders      *repository.OrderRepository
	Suppliers   *repository.SupplierRepository
	Branches    *repository.BranchRepository
	Consumption *repository.ConsumptionRepository
	Acks        *repository.AcknowledgementRepository
	Publisher   *events.Publisher
	Logger      *logger.Logger
	AckPolicy   string
}

// NewInventoryService creates a new inventory service
func NewInventoryService(d Deps) *InventoryService {
	return &InventoryService{
		items:       d.Items,
		batches:     d.Batches,
		orders:      d.Orders,
		suppliers:   d.Suppliers,
		branches:    d.Branches,
		consumption: d.Consumption,
		acks:        d.Acks,
		publisher:   d.Publisher,
		logger:      d.Logger.WithComponent("inventory-service"),
		ackPolicy:   d.AckPolicy,
	}
}

// CreateItem creates a new inventory item. A branch-restricted caller can
// only create items in their own branch.
func (s *InventoryService) CreateItem(ctx context.Context, sc scope.Scope, item *repository.InventoryItem) error {
	if sc.Restricted() {
		item.Branch = sc.Branch
	}
	if item.Branch == "" {
		return errors.BadRequest("branch is required")
	}

	return s.items.Create(ctx, item)
}

// GetItem gets one item within the caller's visibility
func (s *InventoryService) GetItem(ctx context.Context, sc scope.Scope, id string) (*repository.InventoryItem, error) {
	return s.items.GetByID(ctx, sc, id)
}

// ListItems lists items visible to the caller
func (s *InventoryService) ListItems(ctx context.Context, sc scope.Scope, filter repository.ItemFilter) ([]repository.InventoryItem, error) {
	return s.items.List(ctx, sc, filter)
}

// UpdateItem updates an item's editable fields
func (s *InventoryService) UpdateItem(ctx context.Context, sc scope.Scope, item *repository.InventoryItem) error {
	return s.items.Update(ctx, sc, item)
}

// DeleteItem removes an item. Staff cannot delete.
func (s *InventoryService) DeleteItem(ctx context.Context, sc scope.Scope, id string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can delete items")
	}
	return s.items.Delete(ctx, sc, id)
}

// AdjustStock applies a signed quantity delta to an item. The change is
// clamped at zero, logged as a movement, and announced on the event bus.
func (s *InventoryService) AdjustStock(ctx context.Context, sc scope.Scope, id string, delta int, reasonCategory, note string) (*repository.InventoryItem, error) {
	if reasonCategory == "" {
		reasonCategory = "Manual Adjustment"
	}

	adj, err := s.items.AdjustQuantity(ctx, sc, id, delta, reasonCategory, note)
	if err != nil {
		return nil, err
	}

	if adj.AppliedDelta != 0 {
		s.publisher.StockAdjusted(ctx, adj, sc)
	}

	s.logger.Info().
		Str("item", adj.Item.Name).
		Str("branch", adj.Item.Branch).
		Int("delta", adj.AppliedDelta).
		Int("quantity", adj.Item.Quantity).
		Msg("stock adjusted")

	return adj.Item, nil
}

// ReceiveBatch records a shipment and folds it into inventory
func (s *InventoryService) ReceiveBatch(ctx context.Context, sc scope.Scope, b *repository.Batch) error {
	if sc.Restricted() {
		b.Branch = sc.Branch
	}
	if b.Branch == "" {
		return errors.BadRequest("branch is required")
	}
	if b.Quantity <= 0 {
		return errors.BadRequest("quantity must be positive")
	}

	if err := s.batches.Receive(ctx, b); err != nil {
		return err
	}

	s.publisher.BatchReceived(ctx, b, sc)

	s.logger.Info().
		Str("batch", b.BatchNumber).
		Str("product", b.ProductName).
		Str("branch", b.Branch).
		Int("quantity", b.Quantity).
		Msg("batch received")

	return nil
}

// GetBatch gets one batch within the caller's visibility
func (s *InventoryService) GetBatch(ctx context.Context, sc scope.Scope, id string) (*repository.Batch, error) {
	return s.batches.GetByID(ctx, sc, id)
}

// GetBatchByQRCode looks up a batch from a scanned label
func (s *InventoryService) GetBatchByQRCode(ctx context.Context, sc scope.Scope, code string) (*repository.Batch, error) {
	return s.batches.GetByQRCode(ctx, sc, code)
}

// ListBatches lists batches visible to the caller
func (s *InventoryService) ListBatches(ctx context.Context, sc scope.Scope, filter repository.BatchFilter) ([]repository.Batch, error) {
	return s.batches.List(ctx, sc, filter)
}

// DeleteBatch removes a batch record. Staff cannot delete.
func (s *InventoryService) DeleteBatch(ctx context.Context, sc scope.Scope, id string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can delete batches")
	}
	return s.batches.Delete(ctx, sc, id)
}

// CreateOrder raises a purchase request
func (s *InventoryService) CreateOrder(ctx context.Context, sc scope.Scope, order *repository.Order) error {
	if sc.Restricted() {
		order.Branch = sc.Branch
	}
	if order.Branch == "" {
		return errors.BadRequest("branch is required")
	}
	if order.Quantity <= 0 {
		return errors.BadRequest("quantity must be positive")
	}
	order.RequestedBy = sc.Email

	return s.orders.Create(ctx, order)
}

// ListOrders lists orders visible to the caller
func (s *InventoryService) ListOrders(ctx context.Context, sc scope.Scope, branch, status string) ([]repository.Order, error) {
	return s.orders.List(ctx, sc, branch, status)
}

// UpdateOrderStatus moves an order through its lifecycle. Only management
// may approve, deliver, or cancel.
func (s *InventoryService) UpdateOrderStatus(ctx context.Context, sc scope.Scope, id, status string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can update orders")
	}

	switch status {
	case repository.OrderStatusPending, repository.OrderStatusApproved,
		repository.OrderStatusDelivered, repository.OrderStatusCancelled:
	default:
		return errors.BadRequest("unknown order status")
	}

	return s.orders.UpdateStatus(ctx, sc, id, status)
}

// DeleteOrder removes an order
func (s *InventoryService) DeleteOrder(ctx context.Context, sc scope.Scope, id string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can delete orders")
	}
	return s.orders.Delete(ctx, sc, id)
}

// CreateSupplier registers a supplier. Management only.
func (s *InventoryService) CreateSupplier(ctx context.Context, sc scope.Scope, sup *repository.Supplier) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can manage suppliers")
	}
	return s.suppliers.Create(ctx, sup)
}

// ListSuppliers lists all suppliers. The supplier directory is hidden
// from staff entirely.
func (s *InventoryService) ListSuppliers(ctx context.Context, sc scope.Scope) ([]repository.Supplier, error) {
	if !sc.IsManagement() {
		return nil, errors.Forbidden("supplier directory requires admin or owner role")
	}
	return s.suppliers.List(ctx)
}

// UpdateSupplier updates a supplier
func (s *InventoryService) UpdateSupplier(ctx context.Context, sc scope.Scope, sup *repository.Supplier) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can manage suppliers")
	}
	return s.suppliers.Update(ctx, sup)
}

// DeleteSupplier removes a supplier
func (s *InventoryService) DeleteSupplier(ctx context.Context, sc scope.Scope, id string) error {
	if !sc.IsManagement() {
		return errors.Forbidden("only admins can manage suppliers")
	}
	return s.suppliers.Delete(ctx, id)
}

// CreateBranch creates a branch. Owner only.
func (s *InventoryService) CreateBranch(ctx context.Context, sc scope.Scope, b *repository.Branch) error {
	if !sc.IsOwner() {
		return errors.Forbidden("only the owner can manage branches")
	}
	return s.branches.Create(ctx, b)
}

// ListBranches lists branches visible to the caller
func (s *InventoryService) ListBranches(ctx context.Context, sc scope.Scope) ([]repository.Branch, error) {
	return s.branches.List(ctx, sc)
}

// UpdateBranch updates a branch. Owner only.
func (s *InventoryService) UpdateBranch(ctx context.Context, sc scope.Scope, b *repository.Branch) error {
	if !sc.IsOwner() {
		return errors.Forbidden("only the owner can manage branches")
	}
	return s.branches.Update(ctx, b)
}

// DeleteBranch removes a branch. Owner only.
func (s *InventoryService) DeleteBranch(ctx context.Context, sc scope.Scope, id string) error {
	if !sc.IsOwner() {
		return errors.Forbidden("only the owner can manage branches")
	}
	return s.branches.Delete(ctx, id)
}

// RecentMovements lists the latest stock movements visible to the caller
func (s *InventoryService) RecentMovements(ctx context.Context, sc scope.Scope, limit int) ([]repository.ConsumptionEntry, error) {
	return s.consumption.ListRecent(ctx, sc, limit)
}

// ComplianceOverview summarizes stock health as a score. Each expired batch
// and each low stock item deducts five points from a 100 baseline.
type ComplianceOverview struct {
	Score         int    `json:"score"`
	Status        string `json:"status"`
	ExpiredCount  int    `json:"expired_count"`
	LowStockCount int    `json:"low_stock_count"`
	Issues        int    `json:"issues"`
}

// ComplianceScore converts issue counts into a score and status band
func ComplianceScore(expiredCount, lowStockCount int) ComplianceOverview {
	issues := expiredCount + lowStockCount

	score := 100 - issues*5
	if score < 0 {
		score = 0
	}

	status := "Excellent"
	switch {
	case score < 50:
		status = "Critical"
	case score < 70:
		status = "Warning"
	case score < 90:
		status = "Good"
	}

	return ComplianceOverview{
		Score:         score,
		Status:        status,
		ExpiredCount:  expiredCount,
		LowStockCount: lowStockCount,
		Issues:        issues,
	}
}

// Compliance computes the compliance overview for the caller's visibility
func (s *InventoryService) Compliance(ctx context.Context, sc scope.Scope) (*ComplianceOverview, error) {
	items, err := s.items.List(ctx, sc, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}

	batches, err := s.batches.List(ctx, sc, repository.BatchFilter{})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := now.Format("2006-01-02")

	expired := 0
	for _, b := range batches {
		if b.ExpiryDate != "" && b.ExpiryDate < today {
			expired++
		}
	}

	lowStock := 0
	for _, item := range items {
		if item.ReorderLevel > 0 && item.Quantity <= item.ReorderLevel {
			lowStock++
		}
	}

	overview := ComplianceScore(expired, lowStock)
	return &overview, nil
}

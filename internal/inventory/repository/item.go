// Package repository handles persistence for the inventory domain.
package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// InventoryItem represents a stocked product at a branch
type InventoryItem struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Category      string    `db:"category" json:"category"`
	Quantity      int       `db:"quantity" json:"quantity"`
	Unit          string    `db:"unit" json:"unit"`
	Branch        string    `db:"branch" json:"branch"`
	Supplier      string    `db:"supplier" json:"supplier"`
	ReorderLevel  int       `db:"reorder_level" json:"reorder_level"`
	AvgDailyUsage float64   `db:"avg_daily_usage" json:"avg_daily_usage"`
	LeadTimeDays  int       `db:"lead_time_days" json:"lead_time_days"`
	SafetyStock   int       `db:"safety_stock" json:"safety_stock"`
	UnitCost      float64   `db:"unit_cost" json:"unit_cost"`
	ExpiryDate    string    `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ItemFilter narrows item listings
type ItemFilter struct {
	Branch   string
	Category string
	Search   string
}

// Adjustment is the result of a stock quantity change
type Adjustment struct {
	Item         *InventoryItem
	AppliedDelta int
	Direction    string
}

const itemColumns = `id, name, category, quantity, unit, branch, supplier,
	reorder_level, avg_daily_usage, lead_time_days, safety_stock, unit_cost,
	expiry_date, created_at, updated_at`

// ItemRepository handles inventory item persistence
type ItemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create creates a new inventory item
func (r *ItemRepository) Create(ctx context.Context, item *InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	query := `
		INSERT INTO inventory_items (
			id, name, category, quantity, unit, branch, supplier,
			reorder_level, avg_daily_usage, lead_time_days, safety_stock,
			unit_cost, expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		item.ID, item.Name, item.Category, item.Quantity, item.Unit,
		item.Branch, item.Supplier, item.ReorderLevel, item.AvgDailyUsage,
		item.LeadTimeDays, item.SafetyStock, item.UnitCost, item.ExpiryDate,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}

	return nil
}

// GetByID gets an item by ID within the caller's visibility
func (r *ItemRepository) GetByID(ctx context.Context, sc scope.Scope, id string) (*InventoryItem, error) {
	var item InventoryItem

	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	args := []interface{}{id}

	if sc.Restricted() {
		query += ` AND branch = $2`
		args = append(args, sc.Branch)
	}

	err := r.db.GetContext(ctx, &item, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("item")
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// List lists items visible to the caller, optionally narrowed by filter
func (r *ItemRepository) List(ctx context.Context, sc scope.Scope, filter ItemFilter) ([]InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1=1`
	args := []interface{}{}

	if branch := sc.EffectiveBranch(filter.Branch); branch != "" {
		args = append(args, branch)
		query += ` AND branch = $` + strconv.Itoa(len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY name, branch`

	items := []InventoryItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}

	return items, nil
}

// Update updates an item's editable fields
func (r *ItemRepository) Update(ctx context.Context, sc scope.Scope, item *InventoryItem) error {
	query := `
		UPDATE inventory_items SET
			name = $2, category = $3, quantity = $4, unit = $5, supplier = $6,
			reorder_level = $7, avg_daily_usage = $8, lead_time_days = $9,
			safety_stock = $10, unit_cost = $11, expiry_date = $12,
			updated_at = NOW()
		WHERE id = $1
	`
	args := []interface{}{
		item.ID, item.Name, item.Category, item.Quantity, item.Unit,
		item.Supplier, item.ReorderLevel, item.AvgDailyUsage,
		item.LeadTimeDays, item.SafetyStock, item.UnitCost, item.ExpiryDate,
	}

	if sc.Restricted() {
		query += ` AND branch = $13`
		args = append(args, sc.Branch)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return database.MapPQError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("item")
	}

	return nil
}

// Delete removes an item and the batches received for it, in one
// transaction. Batches are linked by (product_name, branch).
func (r *ItemRepository) Delete(ctx context.Context, sc scope.Scope, id string) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `DELETE FROM inventory_items WHERE id = $1 RETURNING name, branch`
		args := []interface{}{id}

		if sc.Restricted() {
			query = `DELETE FROM inventory_items WHERE id = $1 AND branch = $2 RETURNING name, branch`
			args = append(args, sc.Branch)
		}

		var name, branch string
		err := tx.QueryRowxContext(ctx, query, args...).Scan(&name, &branch)
		if err == sql.ErrNoRows {
			return errors.NotFound("item")
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM batches WHERE product_name = $1 AND branch = $2`,
			name, branch)
		return err
	})
}

// AdjustQuantity applies a signed stock delta to an item. The quantity is
// clamped at zero; the consumption log records the requested delta, not the
// clamped movement, inside the same transaction.
func (r *ItemRepository) AdjustQuantity(ctx context.Context, sc scope.Scope, id string, delta int, reasonCategory, note string) (*Adjustment, error) {
	var adj Adjustment

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		var item InventoryItem

		query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
		args := []interface{}{id}
		if sc.Restricted() {
			query += ` AND branch = $2`
			args = append(args, sc.Branch)
		}
		query += ` FOR UPDATE`

		if err := tx.GetContext(ctx, &item, query, args...); err != nil {
			if err == sql.ErrNoRows {
				return errors.NotFound("item")
			}
			return err
		}

		newQuantity := item.Quantity + delta
		if newQuantity < 0 {
			newQuantity = 0
		}
		applied := newQuantity - item.Quantity

		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory_items SET quantity = $2, updated_at = NOW() WHERE id = $1`,
			item.ID, newQuantity,
		); err != nil {
			return database.MapPQError(err)
		}

		direction := "in"
		if delta < 0 {
			direction = "out"
		}

		if delta != 0 {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO consumption_log (item_name, branch, quantity, direction, reason_category, note, recorded_by)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				item.Name, item.Branch, abs(delta), direction, reasonCategory, note, sc.Email,
			); err != nil {
				return database.MapPQError(err)
			}
		}

		item.Quantity = newQuantity
		adj = Adjustment{Item: &item, AppliedDelta: applied, Direction: direction}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &adj, nil
}

// UpsertFromBatch folds a received batch into the matching item's quantity,
// creating the item when it does not exist yet. Runs inside the batch
// receive transaction.
func (r *ItemRepository) UpsertFromBatch(ctx context.Context, tx *sqlx.Tx, b *Batch) error {
	query := `
		INSERT INTO inventory_items (
			id, name, category, quantity, unit, branch, supplier, expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT items_name_branch DO UPDATE SET
			quantity = inventory_items.quantity + EXCLUDED.quantity,
			expiry_date = EXCLUDED.expiry_date,
			updated_at = NOW()
	`

	_, err := tx.ExecContext(ctx, query,
		uuid.New().String(), b.ProductName, b.Category, b.Quantity,
		b.Unit, b.Branch, b.Supplier, b.ExpiryDate,
	)
	if err != nil {
		return database.MapPQError(err)
	}

	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Package analytics computes dashboard statistics and streams periodic
// snapshots to subscribers.
package analytics

import (
	"context"
	"strconv"
	"time"

	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Repository runs the aggregate queries behind the analytics endpoints
type Repository struct {
	db *database.DB
}

// NewRepository creates a new analytics repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Overview holds the headline KPIs
type Overview struct {
	NewItems   int `db:"new_items" json:"new_items"`
	Batches7d  int `db:"batches_7d" json:"batches_7d"`
	TotalItems int `db:"total_items" json:"total_items"`
	Branches   int `db:"branches" json:"branches"`
}

// Overview counts recent activity across the caller's visibility
func (r *Repository) Overview(ctx context.Context, sc scope.Scope) (*Overview, error) {
	var o Overview

	cutoff := time.Now().AddDate(0, 0, -7)
	cutoffStr := cutoff.Format("2006-01-02")

	branchFilter := ""
	args := []interface{}{cutoff, cutoffStr}
	if sc.Restricted() {
		args = append(args, sc.Branch)
		branchFilter = ` AND branch = $3`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM inventory_items WHERE created_at >= $1` + branchFilter + `) AS new_items,
			(SELECT COUNT(*) FROM batches WHERE received_date >= $2` + branchFilter + `) AS batches_7d,
			(SELECT COUNT(*) FROM inventory_items WHERE 1=1` + branchFilter + `) AS total_items,
			(SELECT COUNT(*) FROM branches) AS branches
	`

	if err := r.db.GetContext(ctx, &o, query, args...); err != nil {
		return nil, err
	}

	return &o, nil
}

// CategoryTotal is one category's combined quantity
type CategoryTotal struct {
	ID    string `db:"category" json:"id"`
	Total int    `db:"total" json:"total"`
}

// CategoryTotals sums quantities per category
func (r *Repository) CategoryTotals(ctx context.Context, sc scope.Scope) ([]CategoryTotal, error) {
	query := `
		SELECT category, SUM(quantity) AS total
		FROM inventory_items
		WHERE category <> ''
	`
	args := []interface{}{}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND branch = $1`
	}

	query += ` GROUP BY category ORDER BY total DESC`

	totals := []CategoryTotal{}
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, err
	}

	return totals, nil
}

// LowStockRow is an item at or below its reorder level
type LowStockRow struct {
	Name     string `db:"name" json:"name"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// LowStock lists items at or below their reorder level
func (r *Repository) LowStock(ctx context.Context, sc scope.Scope) ([]LowStockRow, error) {
	query := `
		SELECT name, quantity FROM inventory_items
		WHERE reorder_level > 0 AND quantity <= reorder_level
	`
	args := []interface{}{}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND branch = $1`
	}

	query += ` ORDER BY quantity`

	rows := []LowStockRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	return rows, nil
}

// TopProduct is an item ranked by outbound usage with its cost impact
type TopProduct struct {
	Name      string  `db:"name" json:"_id"`
	Used      int     `db:"used" json:"used"`
	TotalCost float64 `db:"total_cost" json:"total_cost"`
}

// TopProducts ranks the most consumed items and prices the usage with the
// item's unit cost. Items missing from inventory price at zero.
func (r *Repository) TopProducts(ctx context.Context, sc scope.Scope, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT c.item_name AS name,
		       SUM(c.quantity) AS used,
		       SUM(c.quantity) * COALESCE(MAX(i.unit_cost), 0) AS total_cost
		FROM consumption_log c
		LEFT JOIN inventory_items i ON i.name = c.item_name AND i.branch = c.branch
		WHERE c.direction = 'out'
	`
	args := []interface{}{}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND c.branch = $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += ` GROUP BY c.item_name ORDER BY used DESC LIMIT $` + strconv.Itoa(len(args))

	products := []TopProduct{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	return products, nil
}

// BranchTotal is one branch's combined stock quantity
type BranchTotal struct {
	Branch string `db:"branch" json:"branch"`
	Total  int    `db:"total" json:"total"`
}

// BranchStock sums quantities per branch
func (r *Repository) BranchStock(ctx context.Context, sc scope.Scope) ([]BranchTotal, error) {
	query := `SELECT branch, SUM(quantity) AS total FROM inventory_items`
	args := []interface{}{}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` WHERE branch = $1`
	}

	query += ` GROUP BY branch ORDER BY branch`

	totals := []BranchTotal{}
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, err
	}

	return totals, nil
}

// BatchIntake is a batch's quantity with its received date, for movement
// bucketing
type BatchIntake struct {
	ReceivedDate string `db:"received_date"`
	Quantity     int    `db:"quantity"`
}

// RecentBatchIntake lists batch quantities received since the cutoff
func (r *Repository) RecentBatchIntake(ctx context.Context, sc scope.Scope, since time.Time) ([]BatchIntake, error) {
	query := `SELECT received_date, quantity FROM batches WHERE received_date >= $1`
	args := []interface{}{since.Format("2006-01-02")}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND branch = $2`
	}

	rows := []BatchIntake{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	return rows, nil
}

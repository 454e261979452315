package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Order statuses
const (
	OrderStatusPending   = "Pending"
	OrderStatusApproved  = "Approved"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// Order represents a purchase order raised against a supplier
type Order struct {
	ID          string    `db:"id" json:"id"`
	ItemName    string    `db:"item_name" json:"item_name"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Supplier    string    `db:"supplier" json:"supplier"`
	Branch      string    `db:"branch" json:"branch"`
	Status      string    `db:"status" json:"status"`
	RequestedBy string    `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const orderColumns = `id, item_name, quantity, supplier, branch, status,
	requested_by, created_at, updated_at`

// OrderRepository handles order persistence
type OrderRepository struct {
	db *database.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, order *Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = OrderStatusPending
	}

	query := `
		INSERT INTO orders (id, item_name, quantity, supplier, branch, status, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		order.ID, order.ItemName, order.Quantity, order.Supplier,
		order.Branch, order.Status, order.RequestedBy,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return database.MapPQError(err)
	}

	return nil
}

// GetByID gets an order by ID within the caller's visibility
func (r *OrderRepository) GetByID(ctx context.Context, sc scope.Scope, id string) (*Order, error) {
	var order Order

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	args := []interface{}{id}

	if sc.Restricted() {
		query += ` AND branch = $2`
		args = append(args, sc.Branch)
	}

	err := r.db.GetContext(ctx, &order, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("order")
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// List lists orders visible to the caller
func (r *OrderRepository) List(ctx context.Context, sc scope.Scope, branch, status string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}

	if b := sc.EffectiveBranch(branch); b != "" {
		args = append(args, b)
		query += ` AND branch = $` + strconv.Itoa(len(args))
	}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	orders := []Order{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListPending lists orders awaiting approval, for the alert engine
func (r *OrderRepository) ListPending(ctx context.Context, sc scope.Scope) ([]Order, error) {
	return r.List(ctx, sc, "", OrderStatusPending)
}

// UpdateStatus changes an order's status
func (r *OrderRepository) UpdateStatus(ctx context.Context, sc scope.Scope, id, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	args := []interface{}{id, status}

	if sc.Restricted() {
		query += ` AND branch = $3`
		args = append(args, sc.Branch)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("order")
	}

	return nil
}

// Delete removes an order
func (r *OrderRepository) Delete(ctx context.Context, sc scope.Scope, id string) error {
	query := `DELETE FROM orders WHERE id = $1`
	args := []interface{}{id}

	if sc.Restricted() {
		query += ` AND branch = $2`
		args = append(args, sc.Branch)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("order")
	}

	return nil
}

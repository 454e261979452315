package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Batch represents a received shipment of a product
type Batch struct {
	ID           string    `db:"id" json:"id"`
	BatchNumber  string    `db:"batch_number" json:"batch_number"`
	LotNumber    string    `db:"lot_number" json:"lot_number"`
	ProductName  string    `db:"product_name" json:"product_name"`
	Category     string    `db:"category" json:"category"`
	Quantity     int       `db:"quantity" json:"quantity"`
	Unit         string    `db:"unit" json:"unit"`
	Branch       string    `db:"branch" json:"branch"`
	Supplier     string    `db:"supplier" json:"supplier"`
	ExpiryDate   string    `db:"expiry_date" json:"expiry_date,omitempty"`
	ReceivedDate string    `db:"received_date" json:"received_date"`
	QRCode       string    `db:"qr_code" json:"qr_code"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// BatchFilter narrows batch listings
type BatchFilter struct {
	Branch string
	Status string
}

const batchColumns = `id, batch_number, lot_number, product_name, category,
	quantity, unit, branch, supplier, expiry_date, received_date, qr_code,
	status, created_at`

// BatchRepository handles batch persistence
type BatchRepository struct {
	db    *database.DB
	items *ItemRepository
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB, items *ItemRepository) *BatchRepository {
	return &BatchRepository{db: db, items: items}
}

// GenerateBatchNumber produces a batch number of the form BTN-yyyymmdd-XXXX
func GenerateBatchNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:4]
	return "BTN-" + now.Format("20060102") + "-" + suffix
}

// GenerateLotNumber produces a lot number of the form LOT-yyyymmdd
func GenerateLotNumber(now time.Time) string {
	return "LOT-" + now.Format("20060102")
}

// GenerateQRCode produces a short uppercase code for batch labels
func GenerateQRCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
}

// FallbackSupplier names a supplier placeholder when none was provided
func FallbackSupplier(now time.Time) string {
	return "SUP-NA-" + now.Format("1504")
}

// Receive records a new batch and folds its quantity into the matching
// inventory item. Both writes happen in one transaction so a failed upsert
// never leaves an orphaned batch.
func (r *BatchRepository) Receive(ctx context.Context, b *Batch) error {
	now := time.Now()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.BatchNumber == "" {
		b.BatchNumber = GenerateBatchNumber(now)
	}
	if b.LotNumber == "" {
		b.LotNumber = GenerateLotNumber(now)
	}
	if b.Supplier == "" {
		b.Supplier = FallbackSupplier(now)
	}
	if b.QRCode == "" {
		b.QRCode = GenerateQRCode()
	}
	if b.ReceivedDate == "" {
		b.ReceivedDate = now.Format("2006-01-02")
	}
	if b.Status == "" {
		b.Status = "active"
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO batches (
				id, batch_number, lot_number, product_name, category, quantity,
				unit, branch, supplier, expiry_date, received_date, qr_code, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING created_at
		`

		err := tx.QueryRowxContext(ctx, query,
			b.ID, b.BatchNumber, b.LotNumber, b.ProductName, b.Category,
			b.Quantity, b.Unit, b.Branch, b.Supplier, b.ExpiryDate,
			b.ReceivedDate, b.QRCode, b.Status,
		).Scan(&b.CreatedAt)
		if err != nil {
			return database.MapPQError(err)
		}

		return r.items.UpsertFromBatch(ctx, tx, b)
	})
}

// GetByID gets a batch by ID within the caller's visibility
func (r *BatchRepository) GetByID(ctx context.Context, sc scope.Scope, id string) (*Batch, error) {
	var b Batch

	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	args := []interface{}{id}

	if sc.Restricted() {
		query += ` AND branch = $2`
		args = append(args, sc.Branch)
	}

	err := r.db.GetContext(ctx, &b, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("batch")
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// GetByQRCode looks a batch up by its label code
func (r *BatchRepository) GetByQRCode(ctx context.Context, sc scope.Scope, code string) (*Batch, error) {
	var b Batch

	query := `SELECT ` + batchColumns + ` FROM batches WHERE qr_code = $1`
	args := []interface{}{code}

	if sc.Restricted() {
		query += ` AND branch = $2`
		args = append(args, sc.Branch)
	}

	err := r.db.GetContext(ctx, &b, query, args...)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("batch")
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// List lists batches visible to the caller
func (r *BatchRepository) List(ctx context.Context, sc scope.Scope, filter BatchFilter) ([]Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE 1=1`
	args := []interface{}{}

	if branch := sc.EffectiveBranch(filter.Branch); branch != "" {
		args = append(args, branch)
		query += ` AND branch = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	batches := []Batch{}
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, err
	}

	return batches, nil
}

// Delete removes a batch record
func (r *BatchRepository) Delete(ctx context.Context, sc scope.Scope, id string) error {
	query := `DELETE FROM batches WHERE id = $1`
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
		return errors.NotFound("batch")
	}

	return nil
}

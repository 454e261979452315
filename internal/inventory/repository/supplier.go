package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
)

// Supplier represents a vendor the practice orders from
type Supplier struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactPerson string    `db:"contact_person" json:"contact_person"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	Address       string    `db:"address" json:"address"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

const supplierColumns = `id, name, contact_person, email, phone, address, created_at`

// SupplierRepository handles supplier persistence
type SupplierRepository struct {
	db *database.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *database.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create creates a new supplier
func (r *SupplierRepository) Create(ctx context.Context, s *Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO suppliers (id, name, contact_person, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address,
	).Scan(&s.CreatedAt)
	if err != nil {
		return database.MapPQError(err)
	}

	return nil
}

// GetByID gets a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*Supplier, error) {
	var s Supplier

	err := r.db.GetContext(ctx, &s,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("supplier")
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// List lists all suppliers
func (r *SupplierRepository) List(ctx context.Context) ([]Supplier, error) {
	suppliers := []Supplier{}

	err := r.db.SelectContext(ctx, &suppliers,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}

	return suppliers, nil
}

// Update updates a supplier's details
func (r *SupplierRepository) Update(ctx context.Context, s *Supplier) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE suppliers SET
			name = $2, contact_person = $3, email = $4, phone = $5, address = $6
		WHERE id = $1
	`, s.ID, s.Name, s.ContactPerson, s.Email, s.Phone, s.Address)
	if err != nil {
		return database.MapPQError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("supplier")
	}

	return nil
}

// Delete removes a supplier
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("supplier")
	}

	return nil
}

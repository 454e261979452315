package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// Branch represents a practice location
type Branch struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	Manager   string    `db:"manager" json:"manager"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BranchRepository handles branch persistence
type BranchRepository struct {
	db *database.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *database.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// Create creates a new branch
func (r *BranchRepository) Create(ctx context.Context, b *Branch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	query := `
		INSERT INTO branches (id, name, location, manager, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		b.ID, b.Name, b.Location, b.Manager, b.Phone,
	).Scan(&b.CreatedAt)
	if err != nil {
		return database.MapPQError(err)
	}

	return nil
}

// GetByID gets a branch by ID
func (r *BranchRepository) GetByID(ctx context.Context, id string) (*Branch, error) {
	var b Branch

	err := r.db.GetContext(ctx, &b,
		`SELECT id, name, location, manager, phone, created_at FROM branches WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("branch")
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// List lists branches visible to the caller. A branch-restricted user only
// sees their own branch.
func (r *BranchRepository) List(ctx context.Context, sc scope.Scope) ([]Branch, error) {
	query := `SELECT id, name, location, manager, phone, created_at FROM branches`
	args := []interface{}{}

	if sc.Restricted() {
		query += ` WHERE name = $1`
		args = append(args, sc.Branch)
	}

	query += ` ORDER BY name`

	branches := []Branch{}
	if err := r.db.SelectContext(ctx, &branches, query, args...); err != nil {
		return nil, err
	}

	return branches, nil
}

// Update updates a branch's details
func (r *BranchRepository) Update(ctx context.Context, b *Branch) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE branches SET name = $2, location = $3, manager = $4, phone = $5
		WHERE id = $1
	`, b.ID, b.Name, b.Location, b.Manager, b.Phone)
	if err != nil {
		return database.MapPQError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("branch")
	}

	return nil
}

// Delete removes a branch
func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("branch")
	}

	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/premierlux/premierlux-backend/pkg/database"
)

// AuditEntry records an administrative action
type AuditEntry struct {
	ID        string    `db:"id" json:"id"`
	UserEmail string    `db:"user_email" json:"user_email"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuditRepository handles audit log persistence
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record appends an audit log entry
func (r *AuditRepository) Record(ctx context.Context, entry *AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO audit_logs (id, user_email, action, details)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, entry.ID, entry.UserEmail, entry.Action, entry.Details).Scan(&entry.CreatedAt)
	return err
}

// List returns the most recent audit entries, newest first
func (r *AuditRepository) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	entries := []AuditEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_email, action, details, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Clear removes all audit entries
func (r *AuditRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

package repository

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/premierlux/premierlux-backend/pkg/database"
)

// Acknowledgement records that a user dismissed an alert
type Acknowledgement struct {
	AlertID        string    `db:"alert_id" json:"alert_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	AcknowledgedAt time.Time `db:"acknowledged_at" json:"acknowledged_at"`
}

// AcknowledgementRepository handles per-user alert acknowledgements
type AcknowledgementRepository struct {
	db *database.DB
}

// NewAcknowledgementRepository creates a new acknowledgement repository
func NewAcknowledgementRepository(db *database.DB) *AcknowledgementRepository {
	return &AcknowledgementRepository{db: db}
}

// Acknowledge records an acknowledgement. Acknowledging the same alert twice
// is a no-op.
func (r *AcknowledgementRepository) Acknowledge(ctx context.Context, userID, alertID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alert_acknowledgements (alert_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (alert_id, user_id) DO NOTHING
	`, alertID, userID)
	if err != nil {
		return database.MapPQError(err)
	}
	return nil
}

// AcknowledgedIDs returns the set of alert IDs the user has acknowledged
func (r *AcknowledgementRepository) AcknowledgedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	ids := []string{}

	err := r.db.SelectContext(ctx, &ids,
		`SELECT alert_id FROM alert_acknowledgements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// PruneStale removes one user's acknowledgements for alert IDs that are no
// longer active for them. Used by the reset acknowledgement policy so a
// recurring condition surfaces again after it clears. Only the given user's
// rows are touched; other users ack against their own visible alert sets.
func (r *AcknowledgementRepository) PruneStale(ctx context.Context, userID string, activeIDs []string) error {
	if len(activeIDs) == 0 {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM alert_acknowledgements WHERE user_id = $1`, userID)
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM alert_acknowledgements
		WHERE user_id = $1 AND NOT (alert_id = ANY($2))
	`, userID, pq.Array(activeIDs))
	return err
}

// ClearForUser removes all acknowledgements for one user
func (r *AcknowledgementRepository) ClearForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM alert_acknowledgements WHERE user_id = $1`, userID)
	return err
}

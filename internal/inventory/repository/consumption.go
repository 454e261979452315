package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/scope"
)

// ConsumptionEntry is a recorded stock movement
type ConsumptionEntry struct {
	ID             string    `db:"id" json:"id"`
	ItemName       string    `db:"item_name" json:"item_name"`
	Branch         string    `db:"branch" json:"branch"`
	Quantity       int       `db:"quantity" json:"quantity"`
	Direction      string    `db:"direction" json:"direction"`
	ReasonCategory string    `db:"reason_category" json:"reason_category"`
	Note           string    `db:"note" json:"note"`
	RecordedBy     string    `db:"recorded_by" json:"recorded_by"`
	RecordedAt     time.Time `db:"recorded_at" json:"recorded_at"`
}

// ConsumptionRepository reads the stock movement log
type ConsumptionRepository struct {
	db *database.DB
}

// NewConsumptionRepository creates a new consumption repository
func NewConsumptionRepository(db *database.DB) *ConsumptionRepository {
	return &ConsumptionRepository{db: db}
}

// ListRecent lists the most recent movements visible to the caller
func (r *ConsumptionRepository) ListRecent(ctx context.Context, sc scope.Scope, limit int) ([]ConsumptionEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, item_name, branch, quantity, direction, reason_category, note, recorded_by, recorded_at
		FROM consumption_log WHERE 1=1`
	args := []interface{}{}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND branch = $` + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	query += ` ORDER BY recorded_at DESC LIMIT $` + strconv.Itoa(len(args))

	entries := []ConsumptionEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}

	return entries, nil
}

// UsageSeries returns the logged quantity of every movement for one item,
// oldest first. The forecaster treats each record as one observation, in
// either direction.
func (r *ConsumptionRepository) UsageSeries(ctx context.Context, sc scope.Scope, itemName string) ([]int, error) {
	query := `SELECT quantity FROM consumption_log WHERE item_name = $1`
	args := []interface{}{itemName}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND branch = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY recorded_at`

	series := []int{}
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, err
	}

	return series, nil
}

// WeeklyMovements returns inbound and outbound totals since the given time,
// bucketed by day. Used for the analytics weekly chart.
func (r *ConsumptionRepository) WeeklyMovements(ctx context.Context, sc scope.Scope, since time.Time) ([]ConsumptionEntry, error) {
	query := `SELECT id, item_name, branch, quantity, direction, reason_category, note, recorded_by, recorded_at
		FROM consumption_log WHERE recorded_at >= $1`
	args := []interface{}{since}

	if sc.Restricted() {
		args = append(args, sc.Branch)
		query += ` AND branch = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY recorded_at`

	entries := []ConsumptionEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}

	return entries, nil
}


package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/premierlux/premierlux-backend/pkg/database"
	"github.com/premierlux/premierlux-backend/pkg/errors"
)

// DashboardKeyAnalysis is the cache slot for the latest inventory analysis
const DashboardKeyAnalysis = "latest_ai_analysis"

// DashboardRepository persists generated analysis documents so repeated
// dashboard loads do not trigger a fresh completion on every request.
type DashboardRepository struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Get loads a cached document into target and reports whether it exists
// along with the time it was stored.
func (r *DashboardRepository) Get(ctx context.Context, key string, target interface{}) (bool, time.Time, error) {
	var row struct {
		Payload   []byte    `db:"payload"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	query := `SELECT payload, updated_at FROM ai_dashboard WHERE key = $1`

	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if err == sql.ErrNoRows {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, errors.Internal("failed to load cached analysis")
	}

	if err := json.Unmarshal(row.Payload, target); err != nil {
		return false, time.Time{}, errors.Internal("failed to decode cached analysis")
	}
	return true, row.UpdatedAt, nil
}

// MarketRow summarizes purchasing history for one item and supplier pair
type MarketRow struct {
	Item          string  `db:"item" json:"item"`
	Supplier      string  `db:"supplier" json:"supplier"`
	Batches       int     `db:"batches" json:"batches"`
	TotalQuantity int     `db:"total_quantity" json:"total_quantity"`
	UnitCost      float64 `db:"unit_cost" json:"unit_cost"`
	FirstReceived string  `db:"first_received" json:"first_received"`
	LastReceived  string  `db:"last_received" json:"last_received"`
}

// MarketRows groups batch intake by item and supplier so the analysis prompt
// can reason about purchasing patterns per supplier.
func (r *DashboardRepository) MarketRows(ctx context.Context, limit int) ([]MarketRow, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT b.product_name AS item, b.supplier,
		       COUNT(*) AS batches,
		       COALESCE(SUM(b.quantity), 0) AS total_quantity,
		       COALESCE(MAX(i.unit_cost), 0) AS unit_cost,
		       COALESCE(MIN(b.received_date), '') AS first_received,
		       COALESCE(MAX(b.received_date), '') AS last_received
		FROM batches b
		LEFT JOIN inventory_items i ON i.name = b.product_name AND i.branch = b.branch
		GROUP BY b.product_name, b.supplier
		ORDER BY batches DESC
		LIMIT $1`

	rows := []MarketRow{}
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errors.Internal("failed to load supplier history")
	}
	return rows, nil
}

// Set stores a document under key, replacing any previous value.
func (r *DashboardRepository) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Internal("failed to encode analysis")
	}

	query := `
		INSERT INTO ai_dashboard (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, key, payload); err != nil {
		return errors.Internal("failed to store analysis")
	}
	return nil
}

// Package migrations creates the database schema on startup.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required by the inventory backend.
// Statements are idempotent so Run is safe to call on every startup.
func Run(ctx context.Context, db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS branches (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) UNIQUE NOT NULL,
			location VARCHAR(255) DEFAULT '',
			manager VARCHAR(255) DEFAULT '',
			phone VARCHAR(50) DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'staff',
			branch VARCHAR(255) NOT NULL DEFAULT 'All',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT role_valid CHECK (role IN ('owner', 'admin', 'staff'))
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			contact_person VARCHAR(255) DEFAULT '',
			email VARCHAR(255) DEFAULT '',
			phone VARCHAR(50) DEFAULT '',
			address VARCHAR(500) DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT suppliers_name UNIQUE (name)
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 0,
			unit VARCHAR(50) DEFAULT '',
			branch VARCHAR(255) NOT NULL,
			supplier VARCHAR(255) DEFAULT '',
			reorder_level INTEGER NOT NULL DEFAULT 0,
			avg_daily_usage DOUBLE PRECISION NOT NULL DEFAULT 0,
			lead_time_days INTEGER NOT NULL DEFAULT 0,
			safety_stock INTEGER NOT NULL DEFAULT 0,
			unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			expiry_date VARCHAR(20) DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT quantity_non_negative CHECK (quantity >= 0),
			CONSTRAINT items_name_branch UNIQUE (name, branch)
		)`,
		`CREATE TABLE IF NOT EXISTS batches (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			batch_number VARCHAR(100) NOT NULL,
			lot_number VARCHAR(100) DEFAULT '',
			product_name VARCHAR(255) NOT NULL,
			category VARCHAR(100) DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 0,
			unit VARCHAR(50) DEFAULT '',
			branch VARCHAR(255) NOT NULL,
			supplier VARCHAR(255) DEFAULT '',
			expiry_date VARCHAR(20) DEFAULT '',
			received_date VARCHAR(20) DEFAULT '',
			qr_code VARCHAR(50) DEFAULT '',
			status VARCHAR(50) DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT batch_number UNIQUE (batch_number)
		)`,
		`CREATE TABLE IF NOT EXISTS consumption_log (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			item_name VARCHAR(255) NOT NULL,
			branch VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL,
			direction VARCHAR(10) NOT NULL,
			reason_category VARCHAR(100) DEFAULT '',
			note TEXT DEFAULT '',
			recorded_by VARCHAR(255) DEFAULT '',
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT direction_valid CHECK (direction IN ('in', 'out'))
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			item_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL,
			supplier VARCHAR(255) DEFAULT '',
			branch VARCHAR(255) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'Pending',
			requested_by VARCHAR(255) DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS alert_acknowledgements (
			alert_id VARCHAR(500) NOT NULL,
			user_id UUID NOT NULL,
			acknowledged_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (alert_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_email VARCHAR(255) NOT NULL,
			action VARCHAR(255) NOT NULL,
			details TEXT DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key VARCHAR(100) PRIMARY KEY,
			value JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ai_dashboard (
			key VARCHAR(100) PRIMARY KEY,
			payload JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_branch ON inventory_items (branch)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_branch ON batches (branch)`,
		`CREATE INDEX IF NOT EXISTS idx_consumption_item ON consumption_log (item_name, branch)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_branch ON orders (branch)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_logs (created_at DESC)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

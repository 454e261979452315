package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/premierlux/premierlux-backend/pkg/database"
)

// Well-known setting keys
const (
	SettingLockdown = "lockdown"
)

// SettingsRepository stores system settings as JSON documents
type SettingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get loads a setting into target. Returns false when the key is unset.
func (r *SettingsRepository) Get(ctx context.Context, key string, target interface{}) (bool, error) {
	var raw []byte

	err := r.db.GetContext(ctx, &raw,
		`SELECT value FROM settings WHERE key = $1`, key)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return false, err
	}

	return true, nil
}

// Set stores a setting, replacing any previous value
func (r *SettingsRepository) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, raw)
	return err
}

// LockdownState is the system lockdown setting
type LockdownState struct {
	Enabled   bool   `json:"enabled"`
	Reason    string `json:"reason,omitempty"`
	EnabledBy string `json:"enabled_by,omitempty"`
}

// Lockdown returns the current lockdown state. An unset key means unlocked.
func (r *SettingsRepository) Lockdown(ctx context.Context) (LockdownState, error) {
	var state LockdownState
	_, err := r.Get(ctx, SettingLockdown, &state)
	return state, err
}

// SetLockdown stores the lockdown state
func (r *SettingsRepository) SetLockdown(ctx context.Context, state LockdownState) error {
	return r.Set(ctx, SettingLockdown, state)
}

package models

import (
	"time"
)

// EnergyData is the per-player regenerating resource. Global, not
// per-season. Created once at account provisioning.
//
// LastRefreshedAt nil means the regeneration clock is not running (never
// consumed, or refilled to full). While the clock runs, regen is recomputed
// lazily on read and the clock only ever advances by whole replenish
// intervals so fractional progress toward the next point is preserved.
type EnergyData struct {
	ID             string `json:"id" gorm:"primaryKey"`
	ExternalUserID string `json:"external_user_id" gorm:"uniqueIndex;not null"`

	EnergyAmount int64 `json:"energy_amount" gorm:"default:0"`
	MaxEnergy    int64 `json:"max_energy" gorm:"default:10"`

	// ReplenishRateMins is minutes per regenerated energy point.
	ReplenishRateMins int64 `json:"energy_replenish_rate" gorm:"default:10"`

	LastConsumedAt  *time.Time `json:"last_consumed_at,omitempty"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

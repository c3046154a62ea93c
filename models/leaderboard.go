package models

import (
	"time"
)

// LeaderboardEntry is one row of a dated, immutable ranked snapshot of a
// season's leaderboard. Multiple snapshot dates coexist; only the most recent
// date for a season is authoritative for "current" rank queries.
type LeaderboardEntry struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	SeasonID       string    `json:"season_id" gorm:"not null;index;uniqueIndex:idx_snapshot_row"`
	ExternalUserID string    `json:"external_user_id" gorm:"not null;index;uniqueIndex:idx_snapshot_row"`
	SnapshotDate   time.Time `json:"snapshot_date" gorm:"not null;index;uniqueIndex:idx_snapshot_row"`

	// Rank is 1-based and dense within a snapshot date.
	Rank   int64 `json:"rank" gorm:"not null"`
	Points int64 `json:"points" gorm:"not null"`
	Tier   Tier  `json:"tier" gorm:"type:varchar(16);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// RankedRow is a display-ready leaderboard row served to clients. It is built
// either from a snapshot generation or from live stats ordering.
type RankedRow struct {
	Rank           int64  `json:"rank"`
	ExternalUserID string `json:"external_user_id"`
	DisplayName    string `json:"display_name"`
	Points         int64  `json:"points"`
	Tier           Tier   `json:"tier"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// PlayerSeasonStats is the per (player, season) accumulator. A row is created
// lazily on the first point award or ticket purchase; readers get a zero-value
// default when no row exists yet.
type PlayerSeasonStats struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"not null;index;uniqueIndex:idx_player_season" json:"external_user_id"`
	SeasonID       string `gorm:"not null;index;uniqueIndex:idx_player_season" json:"season_id"`

	Points      int64 `json:"points" gorm:"default:0"`
	GamesPlayed int64 `json:"games_played" gorm:"default:0"`
	GamesWon    int64 `json:"games_won" gorm:"default:0"`
	WinStreak   int64 `json:"win_streak" gorm:"default:0"`

	// ParticipationDays increments at most once per UTC calendar day.
	ParticipationDays int64      `json:"participation_days" gorm:"default:0"`
	LastPlayedDate    *time.Time `json:"last_played_date,omitempty"`

	HasEntryTicket bool  `json:"has_entry_ticket" gorm:"default:false;index"`
	ReserveEnergy  int64 `json:"reserve_energy" gorm:"default:0"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

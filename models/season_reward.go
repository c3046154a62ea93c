package models

import (
	"time"
)

// SeasonReward is the terminal reward record written once per (player, season)
// when a season closes. RewardsDistributed is the idempotency guard for the
// later distribution step; re-running close or distribute never double-pays.
type SeasonReward struct {
	ID             string `json:"id" gorm:"primaryKey"`
	ExternalUserID string `json:"external_user_id" gorm:"not null;index;uniqueIndex:idx_reward_player_season"`
	SeasonID       string `json:"season_id" gorm:"not null;index;uniqueIndex:idx_reward_player_season"`

	Rank   int64 `json:"rank" gorm:"not null"`
	Points int64 `json:"points" gorm:"not null"`
	Tier   Tier  `json:"tier" gorm:"type:varchar(16);not null"`

	RewardsDistributed bool       `json:"rewards_distributed" gorm:"default:false;index"`
	DistributionDate   *time.Time `json:"distribution_date,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

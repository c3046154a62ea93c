package models

import (
	"time"

	"gorm.io/gorm"
)

// SeasonPlayer is a local snapshot of profile data needed for leaderboard
// rendering. Owned solely by this service; populated via the sync worker from
// the profile service. The leaderboard falls back to a synthesized
// placeholder name when a player has not been mirrored yet.
type SeasonPlayer struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string  `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Username       string  `gorm:"index;not null" json:"username"`
	DisplayName    *string `json:"display_name,omitempty"`
	AvatarURL      *string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	LastSeen *time.Time `json:"last_seen,omitempty"`
	IsBanned bool       `json:"is_banned" gorm:"default:false"` // local season ban

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Name returns the best display string for the player.
func (p *SeasonPlayer) Name() string {
	if p.DisplayName != nil && *p.DisplayName != "" {
		return *p.DisplayName
	}
	return p.Username
}

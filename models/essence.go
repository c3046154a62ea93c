package models

import (
	"time"
)

// EssenceKind is one of the three non-convertible essence currencies.
type EssenceKind string

const (
	EssenceRock     EssenceKind = "rock"
	EssencePaper    EssenceKind = "paper"
	EssenceScissors EssenceKind = "scissors"
)

// ValidEssenceKind reports whether k names a known essence column.
func ValidEssenceKind(k EssenceKind) bool {
	switch k {
	case EssenceRock, EssencePaper, EssenceScissors:
		return true
	}
	return false
}

// ElementalEssences holds the three independent non-negative balances per
// player. There is no conversion between kinds. Created once at account
// provisioning.
type ElementalEssences struct {
	ID             string `json:"id" gorm:"primaryKey"`
	ExternalUserID string `json:"external_user_id" gorm:"uniqueIndex;not null"`

	Rock     int64 `json:"rock" gorm:"default:0"`
	Paper    int64 `json:"paper" gorm:"default:0"`
	Scissors int64 `json:"scissors" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Balance returns the balance for kind. Unknown kinds read as 0.
func (e *ElementalEssences) Balance(kind EssenceKind) int64 {
	switch kind {
	case EssenceRock:
		return e.Rock
	case EssencePaper:
		return e.Paper
	case EssenceScissors:
		return e.Scissors
	}
	return 0
}

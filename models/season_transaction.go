package models

import (
	"time"
)

// TransactionType is the business reason for an essence-funded purchase.
type TransactionType string

const (
	TransactionEntryTicket         TransactionType = "entry_ticket"
	TransactionReserveEnergySmall  TransactionType = "reserve_energy_small"
	TransactionReserveEnergyMedium TransactionType = "reserve_energy_medium"
	TransactionReserveEnergyLarge  TransactionType = "reserve_energy_large"
)

// EssenceCost is the per-kind essence charged for a purchase. Stored inline on
// the transaction row so the audit trail records the exact price paid, even if
// the catalog changes later.
type EssenceCost struct {
	Rock     int64 `json:"rock" gorm:"column:cost_rock;default:0"`
	Paper    int64 `json:"paper" gorm:"column:cost_paper;default:0"`
	Scissors int64 `json:"scissors" gorm:"column:cost_scissors;default:0"`
}

// SeasonTransaction is an append-only audit row reconciling essence debits
// against stats mutations. Rows are never updated or deleted.
type SeasonTransaction struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	ExternalUserID string          `json:"external_user_id" gorm:"not null;index"`
	SeasonID       string          `json:"season_id" gorm:"not null;index"`
	Type           TransactionType `json:"type" gorm:"type:varchar(32);not null"`

	// Amount is what the purchase granted: 1 for a ticket, the reserve
	// energy quantity for a reserve tier.
	Amount int64 `json:"amount" gorm:"not null"`

	EssenceCost EssenceCost `json:"essence_cost" gorm:"embedded"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

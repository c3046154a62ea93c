package services

import (
	"errors"
	"fmt"

	"season-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EssenceService manages the three-kind essence balances. Credit and debit
// are single guarded UPDATE statements; a debit can never drive a balance
// negative even under concurrent calls.
type EssenceService struct {
	DB *gorm.DB
}

func NewEssenceService(db *gorm.DB) *EssenceService {
	return &EssenceService{DB: db}
}

// EnsureEssenceRecord ensures an ElementalEssences row exists (idempotent).
func (s *EssenceService) EnsureEssenceRecord(externalUserID string) (*models.ElementalEssences, error) {
	var e models.ElementalEssences
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&e).Error
	if err == nil {
		return &e, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("fetch essences", err)
	}

	e = models.ElementalEssences{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
	}
	if err := s.DB.Create(&e).Error; err != nil {
		return nil, storeErr("create essences", err)
	}
	return &e, nil
}

// Get returns the player's balances, provisioning a zeroed row on first read.
func (s *EssenceService) Get(externalUserID string) (*models.ElementalEssences, error) {
	return s.EnsureEssenceRecord(externalUserID)
}

// Credit adds amount to one essence kind. Zero and negative amounts are
// rejected outright to surface caller bugs.
func (s *EssenceService) Credit(externalUserID string, kind models.EssenceKind, amount int64) (*models.ElementalEssences, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !models.ValidEssenceKind(kind) {
		return nil, fmt.Errorf("unknown essence kind %q", kind)
	}

	if _, err := s.EnsureEssenceRecord(externalUserID); err != nil {
		return nil, err
	}

	col := string(kind)
	res := s.DB.Model(&models.ElementalEssences{}).
		Where("external_user_id = ?", externalUserID).
		Update(col, gorm.Expr(col+" + ?", amount))
	if res.Error != nil {
		return nil, storeErr("credit essence", res.Error)
	}

	return s.Get(externalUserID)
}

// Debit removes amount from one essence kind, failing with
// ErrInsufficientBalance (balance untouched) when the guard does not match.
func (s *EssenceService) Debit(externalUserID string, kind models.EssenceKind, amount int64) (*models.ElementalEssences, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !models.ValidEssenceKind(kind) {
		return nil, fmt.Errorf("unknown essence kind %q", kind)
	}

	if _, err := s.EnsureEssenceRecord(externalUserID); err != nil {
		return nil, err
	}

	col := string(kind)
	res := s.DB.Model(&models.ElementalEssences{}).
		Where("external_user_id = ? AND "+col+" >= ?", externalUserID, amount).
		Update(col, gorm.Expr(col+" - ?", amount))
	if res.Error != nil {
		return nil, storeErr("debit essence", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInsufficientBalance
	}

	return s.Get(externalUserID)
}

// DebitCost charges a multi-kind essence cost inside tx, debiting each
// non-zero kind with the same guarded UPDATE used by Debit. Used by the shop
// call sites so the debit-then-record ordering stays explicit and auditable.
func (s *EssenceService) DebitCost(tx *gorm.DB, externalUserID string, cost models.EssenceCost) error {
	charges := []struct {
		kind   models.EssenceKind
		amount int64
	}{
		{models.EssenceRock, cost.Rock},
		{models.EssencePaper, cost.Paper},
		{models.EssenceScissors, cost.Scissors},
	}

	for _, c := range charges {
		if c.amount == 0 {
			continue
		}
		if c.amount < 0 {
			return ErrInvalidAmount
		}
		col := string(c.kind)
		res := tx.Model(&models.ElementalEssences{}).
			Where("external_user_id = ? AND "+col+" >= ?", externalUserID, c.amount).
			Update(col, gorm.Expr(col+" - ?", c.amount))
		if res.Error != nil {
			return storeErr("debit essence", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
	}
	return nil
}

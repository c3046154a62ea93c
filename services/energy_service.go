package services

import (
	"errors"
	"log"
	"time"

	"season-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provisioning defaults for players that have never touched energy before.
const (
	DefaultMaxEnergy         = 10
	DefaultReplenishRateMins = 10
)

// EnergyService manages the regenerating, capped energy resource. Reads apply
// regeneration lazily; the recomputed state is persisted by a detached
// best-effort write so reads never block on the store round-trip.
type EnergyService struct {
	DB *gorm.DB

	DefaultMax  int64
	DefaultRate int64
}

func NewEnergyService(db *gorm.DB) *EnergyService {
	return &EnergyService{
		DB:          db,
		DefaultMax:  DefaultMaxEnergy,
		DefaultRate: DefaultReplenishRateMins,
	}
}

// EnsureEnergyRecord ensures an EnergyData row exists (idempotent).
// New players start at full energy with the regeneration clock at rest.
func (s *EnergyService) EnsureEnergyRecord(externalUserID string) (*models.EnergyData, error) {
	var e models.EnergyData
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&e).Error
	if err == nil {
		return &e, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("fetch energy", err)
	}

	e = models.EnergyData{
		ID:                uuid.NewString(),
		ExternalUserID:    externalUserID,
		EnergyAmount:      s.DefaultMax,
		MaxEnergy:         s.DefaultMax,
		ReplenishRateMins: s.DefaultRate,
	}
	if err := s.DB.Create(&e).Error; err != nil {
		return nil, storeErr("create energy", err)
	}
	return &e, nil
}

// applyRegeneration advances e in place by the whole replenish intervals
// elapsed since LastRefreshedAt. The clock only ever moves by whole
// intervals, so fractional progress toward the next point is preserved
// losslessly; calling twice with no elapsed time is a no-op.
//
// Returns true when anything changed. A nil LastRefreshedAt is a valid
// paused state (never consumed, or refilled) and never regenerates.
func applyRegeneration(e *models.EnergyData, now time.Time) bool {
	if e.LastRefreshedAt == nil || e.EnergyAmount >= e.MaxEnergy || e.ReplenishRateMins <= 0 {
		return false
	}

	interval := time.Duration(e.ReplenishRateMins) * time.Minute
	wholeIntervals := int64(now.Sub(*e.LastRefreshedAt) / interval)
	if wholeIntervals <= 0 {
		return false
	}

	gained := wholeIntervals
	if room := e.MaxEnergy - e.EnergyAmount; gained > room {
		gained = room
	}
	e.EnergyAmount += gained

	if e.EnergyAmount >= e.MaxEnergy {
		// Full again: the clock stops until the next consume restarts it.
		e.LastRefreshedAt = nil
	} else {
		advanced := e.LastRefreshedAt.Add(time.Duration(wholeIntervals) * interval)
		e.LastRefreshedAt = &advanced
	}
	return true
}

// GetCurrent returns the player's energy after applying owed regeneration.
// The recomputed state is written back asynchronously; callers must not
// assume it is durable before the next read. A lost write is harmless
// because regeneration is re-derived from LastRefreshedAt on every read.
func (s *EnergyService) GetCurrent(externalUserID string) (*models.EnergyData, error) {
	e, err := s.EnsureEnergyRecord(externalUserID)
	if err != nil {
		return nil, err
	}

	prevAmount := e.EnergyAmount
	prevRefreshedAt := e.LastRefreshedAt
	if applyRegeneration(e, time.Now().UTC()) {
		s.persistRegeneration(*e, prevAmount, prevRefreshedAt)
	}
	return e, nil
}

// persistRegeneration writes the regenerated state back without blocking the
// caller. The update is guarded on the pre-regeneration values so a
// concurrent consume always wins the race; at most one write per read.
func (s *EnergyService) persistRegeneration(e models.EnergyData, prevAmount int64, prevRefreshedAt *time.Time) {
	go func() {
		res := s.DB.Model(&models.EnergyData{}).
			Where("external_user_id = ? AND energy_amount = ? AND last_refreshed_at = ?",
				e.ExternalUserID, prevAmount, prevRefreshedAt).
			Updates(map[string]interface{}{
				"energy_amount":     e.EnergyAmount,
				"last_refreshed_at": e.LastRefreshedAt,
			})
		if res.Error != nil {
			log.Printf("[energy] regen write-back failed for %s: %v", e.ExternalUserID, res.Error)
		}
	}()
}

// Consume debits amount energy after forcing regeneration. The debit is a
// single guarded UPDATE so two concurrent consumes can never both succeed on
// the same balance. Consuming from full (or with the clock at rest) restarts
// the regeneration clock.
func (s *EnergyService) Consume(externalUserID string, amount int64) (*models.EnergyData, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	e, err := s.EnsureEnergyRecord(externalUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prevAmount := e.EnergyAmount
	prevRefreshedAt := e.LastRefreshedAt
	if applyRegeneration(e, now) {
		// Synchronous here: the debit below must see the regenerated value.
		res := s.DB.Model(&models.EnergyData{}).
			Where("external_user_id = ? AND energy_amount = ? AND last_refreshed_at = ?",
				externalUserID, prevAmount, prevRefreshedAt).
			Updates(map[string]interface{}{
				"energy_amount":     e.EnergyAmount,
				"last_refreshed_at": e.LastRefreshedAt,
			})
		if res.Error != nil {
			return nil, storeErr("persist regen", res.Error)
		}
	}

	if e.EnergyAmount < amount {
		return nil, ErrInsufficientEnergy
	}

	res := s.DB.Model(&models.EnergyData{}).
		Where("external_user_id = ? AND energy_amount >= ?", externalUserID, amount).
		Updates(map[string]interface{}{
			"energy_amount":    gorm.Expr("energy_amount - ?", amount),
			"last_consumed_at": now,
			"last_refreshed_at": gorm.Expr(
				"CASE WHEN energy_amount >= max_energy OR last_refreshed_at IS NULL THEN ? ELSE last_refreshed_at END", now),
		})
	if res.Error != nil {
		return nil, storeErr("consume energy", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a race with a concurrent consume.
		return nil, ErrInsufficientEnergy
	}

	energyConsumed.Add(float64(amount))

	var out models.EnergyData
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&out).Error; err != nil {
		return nil, storeErr("reload energy", err)
	}
	return &out, nil
}

// Refill is the administrative reset: energy becomes min(max, amount), or
// full when amount is nil, and the regeneration clock is cleared.
func (s *EnergyService) Refill(externalUserID string, amount *int64) (*models.EnergyData, error) {
	e, err := s.EnsureEnergyRecord(externalUserID)
	if err != nil {
		return nil, err
	}

	target := e.MaxEnergy
	if amount != nil {
		if *amount <= 0 {
			return nil, ErrInvalidAmount
		}
		if *amount < target {
			target = *amount
		}
	}

	res := s.DB.Model(&models.EnergyData{}).
		Where("external_user_id = ?", externalUserID).
		Updates(map[string]interface{}{
			"energy_amount":     target,
			"last_refreshed_at": nil,
		})
	if res.Error != nil {
		return nil, storeErr("refill energy", res.Error)
	}

	e.EnergyAmount = target
	e.LastRefreshedAt = nil
	return e, nil
}

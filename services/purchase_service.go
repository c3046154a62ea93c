package services

import (
	"fmt"
	"log"

	"season-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReserveTier names a purchasable reserve-energy bundle.
type ReserveTier string

const (
	ReserveTierSmall  ReserveTier = "small"
	ReserveTierMedium ReserveTier = "medium"
	ReserveTierLarge  ReserveTier = "large"
)

// reserveOffer is one catalog row: energy granted and essence charged.
type reserveOffer struct {
	txType models.TransactionType
	amount int64
	cost   models.EssenceCost
}

// The shop catalog. Costs are recorded verbatim on each transaction row, so
// changing these later never rewrites history.
var (
	entryTicketCost = models.EssenceCost{Rock: 5, Paper: 5, Scissors: 5}

	reserveCatalog = map[ReserveTier]reserveOffer{
		ReserveTierSmall:  {models.TransactionReserveEnergySmall, 5, models.EssenceCost{Rock: 2, Paper: 2, Scissors: 2}},
		ReserveTierMedium: {models.TransactionReserveEnergyMedium, 15, models.EssenceCost{Rock: 5, Paper: 5, Scissors: 5}},
		ReserveTierLarge:  {models.TransactionReserveEnergyLarge, 40, models.EssenceCost{Rock: 12, Paper: 12, Scissors: 12}},
	}
)

// EntryTicketCost exposes the current ticket price for the shop endpoint.
func EntryTicketCost() models.EssenceCost { return entryTicketCost }

// ReserveOffers exposes the reserve-energy catalog for the shop endpoint.
func ReserveOffers() map[ReserveTier]struct {
	Amount int64              `json:"amount"`
	Cost   models.EssenceCost `json:"cost"`
} {
	out := make(map[ReserveTier]struct {
		Amount int64              `json:"amount"`
		Cost   models.EssenceCost `json:"cost"`
	}, len(reserveCatalog))
	for tier, offer := range reserveCatalog {
		out[tier] = struct {
			Amount int64              `json:"amount"`
			Cost   models.EssenceCost `json:"cost"`
		}{offer.amount, offer.cost}
	}
	return out
}

// PurchaseService appends the season transaction ledger and grants the
// resulting entitlements. Recording never calls the essence ledger itself:
// the debit happens first at the same call site, inside the same
// transaction, so the ordering stays explicit and auditable.
type PurchaseService struct {
	DB       *gorm.DB
	Essences *EssenceService
	Stats    *StatsService
}

func NewPurchaseService(db *gorm.DB, essences *EssenceService, stats *StatsService) *PurchaseService {
	return &PurchaseService{DB: db, Essences: essences, Stats: stats}
}

// recordEntryTicket is the ledger write: idempotency guard, one transaction
// row, ticket flag. Essence must already be debited by the caller.
func (s *PurchaseService) recordEntryTicket(tx *gorm.DB, externalUserID, seasonID string, cost models.EssenceCost) (*models.SeasonTransaction, error) {
	stats, err := s.Stats.ensureRow(tx, externalUserID, seasonID)
	if err != nil {
		return nil, err
	}
	if stats.HasEntryTicket {
		return nil, ErrAlreadyHasEntitlement
	}

	txn := models.SeasonTransaction{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		SeasonID:       seasonID,
		Type:           models.TransactionEntryTicket,
		Amount:         1,
		EssenceCost:    cost,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return nil, storeErr("append ticket transaction", err)
	}

	res := tx.Model(&models.PlayerSeasonStats{}).
		Where("external_user_id = ? AND season_id = ? AND has_entry_ticket = ?", externalUserID, seasonID, false).
		Update("has_entry_ticket", true)
	if res.Error != nil {
		return nil, storeErr("grant ticket", res.Error)
	}
	if res.RowsAffected == 0 {
		// Concurrent purchase raced us between the read and the flag.
		return nil, ErrAlreadyHasEntitlement
	}
	return &txn, nil
}

// PurchaseEntryTicket debits the catalog price and records the entitlement
// atomically. A duplicate purchase fails with ErrAlreadyHasEntitlement
// before any essence moves; callers treat that as a successful no-op.
func (s *PurchaseService) PurchaseEntryTicket(externalUserID, seasonID string) (*models.SeasonTransaction, error) {
	var txn *models.SeasonTransaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		stats, err := s.Stats.ensureRow(tx, externalUserID, seasonID)
		if err != nil {
			return err
		}
		if stats.HasEntryTicket {
			return ErrAlreadyHasEntitlement
		}

		// Debit first, then record: the ledger row documents a charge
		// that has already happened.
		if err := s.Essences.DebitCost(tx, externalUserID, entryTicketCost); err != nil {
			return err
		}
		txn, err = s.recordEntryTicket(tx, externalUserID, seasonID, entryTicketCost)
		return err
	})
	if err != nil {
		return nil, err
	}

	purchasesRecorded.WithLabelValues(string(models.TransactionEntryTicket)).Inc()
	log.Printf("[shop] %s bought entry ticket for season %s", externalUserID, seasonID)
	return txn, nil
}

// PurchaseReserveEnergy debits the tier's price, appends the transaction and
// increments the season reserve buffer. Requires an entry ticket.
func (s *PurchaseService) PurchaseReserveEnergy(externalUserID, seasonID string, tier ReserveTier) (*models.SeasonTransaction, error) {
	offer, ok := reserveCatalog[tier]
	if !ok {
		return nil, fmt.Errorf("unknown reserve tier %q", tier)
	}

	var txn models.SeasonTransaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		stats, err := s.Stats.ensureRow(tx, externalUserID, seasonID)
		if err != nil {
			return err
		}
		if !stats.HasEntryTicket {
			return fmt.Errorf("%w: reserve energy requires an entry ticket", ErrPreconditionFailed)
		}

		if err := s.Essences.DebitCost(tx, externalUserID, offer.cost); err != nil {
			return err
		}

		txn = models.SeasonTransaction{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			SeasonID:       seasonID,
			Type:           offer.txType,
			Amount:         offer.amount,
			EssenceCost:    offer.cost,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return storeErr("append reserve transaction", err)
		}

		res := tx.Model(&models.PlayerSeasonStats{}).
			Where("external_user_id = ? AND season_id = ?", externalUserID, seasonID).
			Update("reserve_energy", gorm.Expr("reserve_energy + ?", offer.amount))
		if res.Error != nil {
			return storeErr("grant reserve energy", res.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchasesRecorded.WithLabelValues(string(offer.txType)).Inc()
	log.Printf("[shop] %s bought %s reserve energy (+%d) for season %s",
		externalUserID, tier, offer.amount, seasonID)
	return &txn, nil
}

// Transactions lists a player's season purchases, newest first.
func (s *PurchaseService) Transactions(externalUserID, seasonID string, limit int) ([]models.SeasonTransaction, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var txns []models.SeasonTransaction
	err := s.DB.Where("external_user_id = ? AND season_id = ?", externalUserID, seasonID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	return txns, nil
}

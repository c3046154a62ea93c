package services

import (
	"errors"
	"fmt"
	"time"

	"season-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsService owns the per (player, season) accumulator and the point
// accrual path.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// Get returns the player's stats for a season, or an unpersisted zero-value
// default when no row exists. Callers must not assume a returned default
// implies a row exists.
func (s *StatsService) Get(externalUserID, seasonID string) (*models.PlayerSeasonStats, error) {
	var stats models.PlayerSeasonStats
	err := s.DB.Where("external_user_id = ? AND season_id = ?", externalUserID, seasonID).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.PlayerSeasonStats{
			ExternalUserID: externalUserID,
			SeasonID:       seasonID,
		}, nil
	}
	if err != nil {
		return nil, storeErr("fetch season stats", err)
	}
	return &stats, nil
}

// ensureRow creates the stats row with zero-valued defaults if missing and
// returns it. Safe under concurrent first-awards: the unique
// (player, season) index makes the loser of a create race re-read.
func (s *StatsService) ensureRow(tx *gorm.DB, externalUserID, seasonID string) (*models.PlayerSeasonStats, error) {
	var stats models.PlayerSeasonStats
	err := tx.Where("external_user_id = ? AND season_id = ?", externalUserID, seasonID).
		First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("fetch season stats", err)
	}

	stats = models.PlayerSeasonStats{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		SeasonID:       seasonID,
	}
	if err := tx.Create(&stats).Error; err != nil {
		// Concurrent creator won; use their row.
		var again models.PlayerSeasonStats
		if err2 := tx.Where("external_user_id = ? AND season_id = ?", externalUserID, seasonID).
			First(&again).Error; err2 == nil {
			return &again, nil
		}
		return nil, storeErr("create season stats", err)
	}
	return &stats, nil
}

// Award records one finished game: points and gamesPlayed always advance,
// gamesWon only on a win, winStreak resets on any loss, and
// participationDays ticks at most once per UTC calendar day. Zero-point
// awards are legal and still advance the counters.
//
// The mutation is a single UPDATE with SQL expressions, so two concurrent
// awards both land instead of one overwriting the other. Callers are
// responsible for gating ranked play on HasEntryTicket before calling.
func (s *StatsService) Award(externalUserID, seasonID string, points int64, won bool) (*models.PlayerSeasonStats, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: points must be >= 0", ErrInvalidAmount)
	}

	if _, err := s.ensureRow(s.DB, externalUserID, seasonID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wonInc := int64(0)
	if won {
		wonInc = 1
	}

	updates := map[string]interface{}{
		"points":       gorm.Expr("points + ?", points),
		"games_played": gorm.Expr("games_played + 1"),
		"games_won":    gorm.Expr("games_won + ?", wonInc),
		// Calendar day compared in UTC for every player so cross-player
		// ranking comparisons stay fair.
		"participation_days": gorm.Expr(
			"participation_days + CASE WHEN last_played_date IS NULL OR DATE(last_played_date) <> DATE(?) THEN 1 ELSE 0 END", now),
		"last_played_date": now,
	}
	if won {
		updates["win_streak"] = gorm.Expr("win_streak + 1")
	} else {
		updates["win_streak"] = 0
	}

	res := s.DB.Model(&models.PlayerSeasonStats{}).
		Where("external_user_id = ? AND season_id = ?", externalUserID, seasonID).
		Updates(updates)
	if res.Error != nil {
		return nil, storeErr("award points", res.Error)
	}

	pointsAwarded.Add(float64(points))
	outcome := "loss"
	if won {
		outcome = "win"
	}
	gamesRecorded.WithLabelValues(outcome).Inc()

	return s.Get(externalUserID, seasonID)
}

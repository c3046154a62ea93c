package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"season-economy-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SnapshotArchiver persists a season's final ranked generation outside the
// database for audit. Nil disables archiving.
type SnapshotArchiver interface {
	ArchiveSeason(seasonID string, payload []byte) (string, error)
}

// RewardService writes the terminal reward ledger at season close and flips
// the distribution flag in a later, separately idempotent step.
type RewardService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService
	Archiver    SnapshotArchiver
}

func NewRewardService(db *gorm.DB, leaderboard *LeaderboardService, archiver SnapshotArchiver) *RewardService {
	return &RewardService{DB: db, Leaderboard: leaderboard, Archiver: archiver}
}

// CloseSeason writes one SeasonReward per player in the final snapshot
// generation, with rewardsDistributed=false. Re-invoking skips players whose
// reward row already exists; the guard is the row, not the season status,
// since status transitions belong to the season admin path. Returns the
// number of rows written.
func (s *RewardService) CloseSeason(seasonID string) (int, error) {
	entries, err := s.Leaderboard.LatestGeneration(seasonID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, errors.New("season has no snapshot generation to close from")
		}
		return 0, err
	}

	written := 0
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			var existing models.SeasonReward
			err := tx.Where("external_user_id = ? AND season_id = ?", e.ExternalUserID, seasonID).
				First(&existing).Error
			if err == nil {
				continue // already written, never double-pay
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return storeErr("fetch reward", err)
			}

			reward := models.SeasonReward{
				ID:             uuid.NewString(),
				ExternalUserID: e.ExternalUserID,
				SeasonID:       seasonID,
				Rank:           e.Rank,
				Points:         e.Points,
				Tier:           e.Tier,
			}
			if err := tx.Create(&reward).Error; err != nil {
				return storeErr("create reward", err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.archiveGeneration(seasonID, entries)

	log.Printf("[rewards] season %s closed: %d reward rows written (%d ranked players)",
		seasonID, written, len(entries))
	return written, nil
}

// archiveGeneration uploads the closing generation as JSON. Best effort: a
// failed upload is logged, never blocks the close.
func (s *RewardService) archiveGeneration(seasonID string, entries []models.LeaderboardEntry) {
	if s.Archiver == nil || len(entries) == 0 {
		return
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		log.Printf("[rewards] archive marshal failed for season %s: %v", seasonID, err)
		return
	}
	url, err := s.Archiver.ArchiveSeason(seasonID, payload)
	if err != nil {
		log.Printf("[rewards] archive upload failed for season %s: %v", seasonID, err)
		return
	}
	log.Printf("[rewards] season %s final standings archived: %s", seasonID, url)
}

// DistributeRewards flips rewardsDistributed for every undistributed reward
// of a season and stamps the distribution date. Idempotent: rows already
// flagged are untouched, so re-running never double-pays.
func (s *RewardService) DistributeRewards(seasonID string) (int64, error) {
	now := time.Now().UTC()
	res := s.DB.Model(&models.SeasonReward{}).
		Where("season_id = ? AND rewards_distributed = ?", seasonID, false).
		Updates(map[string]interface{}{
			"rewards_distributed": true,
			"distribution_date":   now,
		})
	if res.Error != nil {
		return 0, storeErr("distribute rewards", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("[rewards] season %s: %d rewards distributed", seasonID, res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// PlayerRewards lists a player's reward records across seasons, newest first.
func (s *RewardService) PlayerRewards(externalUserID string, limit int) ([]models.SeasonReward, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var rewards []models.SeasonReward
	err := s.DB.Where("external_user_id = ?", externalUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rewards).Error
	if err != nil {
		return nil, storeErr("list rewards", err)
	}
	return rewards, nil
}

// services/scheduler.go
package services

import (
	"errors"
	"log"
	"time"

	"season-economy-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartSeasonScheduler runs the administrative clockwork: periodic
// leaderboard snapshots of the current season, and a sweep that closes
// seasons whose end time has passed.
func StartSeasonScheduler(seasons *SeasonService, leaderboard *LeaderboardService, rewards *RewardService, snapshotEvery time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Periodic snapshot of the current season's standings.
	_, _ = sched.NewJob(
		gocron.DurationJob(snapshotEvery),
		gocron.NewTask(func() {
			season, err := seasons.Current()
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					log.Printf("[Scheduler] season resolution failed: %v", err)
				}
				return
			}
			if season.Status != models.SeasonStatusActive {
				return
			}
			if _, err := leaderboard.Snapshot(season.ID); err != nil {
				log.Printf("[Scheduler] snapshot failed for season %s: %v", season.ID, err)
			}
		}),
	)

	// Every minute: close active seasons that have run past their end.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var ended []models.Season
			now := time.Now().UTC()
			err := seasons.DB.Where("status = ? AND end_time <= ?", models.SeasonStatusActive, now).
				Find(&ended).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, season := range ended {
				// Final snapshot first so close sees the end-of-season
				// standings.
				if _, err := leaderboard.Snapshot(season.ID); err != nil {
					log.Printf("[Scheduler] final snapshot failed for %s: %v", season.ID, err)
					continue
				}
				if _, err := rewards.CloseSeason(season.ID); err != nil {
					log.Printf("[Scheduler] close failed for %s: %v", season.ID, err)
					continue
				}
				if _, err := seasons.UpdateStatus(season.ID, models.SeasonStatusCompleted); err != nil {
					log.Printf("[Scheduler] status transition failed for %s: %v", season.ID, err)
					continue
				}
				log.Printf("✅ Season closed: %s", season.Name)
			}
		}),
	)
}

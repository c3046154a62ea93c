package services

import (
	"encoding/json"
	"testing"

	"season-economy-system/models"

	"gorm.io/gorm"
)

// captureArchiver records the last archived payload.
type captureArchiver struct {
	seasonID string
	payload  []byte
}

func (a *captureArchiver) ArchiveSeason(seasonID string, payload []byte) (string, error) {
	a.seasonID = seasonID
	a.payload = payload
	return "https://cdn.example.com/seasons/" + seasonID + "/standings.json", nil
}

func newTestRewards(t *testing.T, db *gorm.DB, archiver SnapshotArchiver) (*RewardService, *LeaderboardService) {
	t.Helper()
	lb := NewLeaderboardService(db, &stubResolver{}, nil)
	return NewRewardService(db, lb, archiver), lb
}

func TestCloseSeasonWritesRewardRows(t *testing.T) {
	db := openTestDB(t)
	season := seedSeason(t, db)
	archiver := &captureArchiver{}
	rewards, lb := newTestRewards(t, db, archiver)

	seedStanding(t, db, season.ID, "p1", 600)
	seedStanding(t, db, season.ID, "p2", 120)
	if _, err := lb.Snapshot(season.ID); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	written, err := rewards.CloseSeason(season.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if written != 2 {
		t.Fatalf("written = %d, want 2", written)
	}

	var rows []models.SeasonReward
	if err := db.Where("season_id = ?", season.ID).Order("rank ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load rewards: %v", err)
	}
	if rows[0].ExternalUserID != "p1" || rows[0].Rank != 1 || rows[0].Tier != models.TierPlatinum {
		t.Fatalf("top reward = %+v", rows[0])
	}
	if rows[1].Tier != models.TierSilver {
		t.Fatalf("second reward tier = %q, want silver", rows[1].Tier)
	}
	for _, r := range rows {
		if r.RewardsDistributed {
			t.Fatalf("reward pre-marked distributed: %+v", r)
		}
	}

	if archiver.seasonID != season.ID {
		t.Fatal("final standings not archived")
	}
	var archived []models.LeaderboardEntry
	if err := json.Unmarshal(archiver.payload, &archived); err != nil {
		t.Fatalf("archive payload not JSON entries: %v", err)
	}
	if len(archived) != 2 {
		t.Fatalf("archived %d entries, want 2", len(archived))
	}
}

func TestCloseSeasonIdempotent(t *testing.T) {
	db := openTestDB(t)
	season := seedSeason(t, db)
	rewards, lb := newTestRewards(t, db, nil)

	seedStanding(t, db, season.ID, "p1", 100)
	if _, err := lb.Snapshot(season.ID); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if _, err := rewards.CloseSeason(season.ID); err != nil {
		t.Fatalf("first close: %v", err)
	}
	written, err := rewards.CloseSeason(season.ID)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if written != 0 {
		t.Fatalf("re-close wrote %d rows, want 0", written)
	}

	var count int64
	db.Model(&models.SeasonReward{}).Where("season_id = ?", season.ID).Count(&count)
	if count != 1 {
		t.Fatalf("reward rows = %d, want exactly 1", count)
	}
}

func TestCloseSeasonWithoutSnapshot(t *testing.T) {
	db := openTestDB(t)
	season := seedSeason(t, db)
	rewards, _ := newTestRewards(t, db, nil)

	if _, err := rewards.CloseSeason(season.ID); err == nil {
		t.Fatal("close without a snapshot generation should fail")
	}
}

func TestDistributeRewardsIdempotent(t *testing.T) {
	db := openTestDB(t)
	season := seedSeason(t, db)
	rewards, lb := newTestRewards(t, db, nil)

	seedStanding(t, db, season.ID, "p1", 100)
	seedStanding(t, db, season.ID, "p2", 50)
	if _, err := lb.Snapshot(season.ID); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := rewards.CloseSeason(season.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	n, err := rewards.DistributeRewards(season.ID)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if n != 2 {
		t.Fatalf("distributed = %d, want 2", n)
	}

	var row models.SeasonReward
	if err := db.Where("season_id = ? AND external_user_id = ?", season.ID, "p1").First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if !row.RewardsDistributed || row.DistributionDate == nil {
		t.Fatalf("distribution not stamped: %+v", row)
	}

	n, err = rewards.DistributeRewards(season.ID)
	if err != nil {
		t.Fatalf("re-distribute: %v", err)
	}
	if n != 0 {
		t.Fatalf("re-run distributed %d rows, want 0", n)
	}
}

func TestPlayerRewards(t *testing.T) {
	db := openTestDB(t)
	season := seedSeason(t, db)
	rewards, lb := newTestRewards(t, db, nil)

	seedStanding(t, db, season.ID, "p1", 100)
	if _, err := lb.Snapshot(season.ID); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := rewards.CloseSeason(season.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	list, err := rewards.PlayerRewards("p1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].SeasonID != season.ID {
		t.Fatalf("rewards = %+v", list)
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"season-economy-system/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const leaderboardCacheTTL = 30 * time.Second

// NameResolver maps player ids to display names for leaderboard rendering.
// The engine tolerates a missing or failing resolver by synthesizing
// placeholder names.
type NameResolver interface {
	Names(externalUserIDs []string) (map[string]string, error)
}

// MirrorNameResolver resolves names from the locally mirrored SeasonPlayer
// table kept fresh by the profile sync worker.
type MirrorNameResolver struct {
	DB *gorm.DB
}

func (r *MirrorNameResolver) Names(ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	var players []models.SeasonPlayer
	if err := r.DB.Where("external_user_id IN ?", ids).Find(&players).Error; err != nil {
		return nil, storeErr("resolve names", err)
	}
	out := make(map[string]string, len(players))
	for i := range players {
		out[players[i].ExternalUserID] = players[i].Name()
	}
	return out, nil
}

// placeholderName is the fallback when the resolver is absent or has no
// mirrored row for a player yet.
func placeholderName(externalUserID string) string {
	id := externalUserID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Player-" + id
}

// LeaderboardService computes ranks either from the latest snapshot
// generation or from a live approximate view when no snapshot exists yet.
// Both paths sit behind the rankedView abstraction so ordering and tie-break
// rules cannot silently diverge between Rank, Leaderboard and Neighborhood.
type LeaderboardService struct {
	DB       *gorm.DB
	Resolver NameResolver

	// Cache is optional; nil disables caching.
	Cache *redis.Client

	mu        sync.Mutex
	snapshots map[string]*sync.Mutex // per-season snapshot serialization
}

func NewLeaderboardService(db *gorm.DB, resolver NameResolver, cache *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		DB:        db,
		Resolver:  resolver,
		Cache:     cache,
		snapshots: make(map[string]*sync.Mutex),
	}
}

// rankedView is one ordered reading of a season's standings. window bounds
// are inclusive, 1-based ranks.
type rankedView interface {
	rank(externalUserID string) (*models.RankedRow, error)
	page(limit, offset int) ([]models.RankedRow, error)
	window(lo, hi int64) ([]models.RankedRow, error)
}

// viewFor selects the snapshot-backed view when a generation exists for the
// season, else the live approximate view. Selected once per call.
func (s *LeaderboardService) viewFor(seasonID string) (rankedView, error) {
	snapDate, err := s.latestSnapshotDate(seasonID)
	if err != nil {
		return nil, err
	}
	if snapDate == nil {
		return &liveView{db: s.DB, seasonID: seasonID}, nil
	}
	return &snapshotView{db: s.DB, seasonID: seasonID, snapshotDate: *snapDate}, nil
}

func (s *LeaderboardService) latestSnapshotDate(seasonID string) (*time.Time, error) {
	var dates []time.Time
	err := s.DB.Model(&models.LeaderboardEntry{}).
		Where("season_id = ?", seasonID).
		Order("snapshot_date DESC").
		Limit(1).
		Pluck("snapshot_date", &dates).Error
	if err != nil {
		return nil, storeErr("latest snapshot date", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}
	return &dates[0], nil
}

// --- snapshot-backed view ---

type snapshotView struct {
	db           *gorm.DB
	seasonID     string
	snapshotDate time.Time
}

func (v *snapshotView) rank(externalUserID string) (*models.RankedRow, error) {
	var entry models.LeaderboardEntry
	err := v.db.Where("season_id = ? AND snapshot_date = ? AND external_user_id = ?",
		v.seasonID, v.snapshotDate, externalUserID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("snapshot rank", err)
	}
	return &models.RankedRow{
		Rank:           entry.Rank,
		ExternalUserID: entry.ExternalUserID,
		Points:         entry.Points,
		Tier:           entry.Tier,
	}, nil
}

func (v *snapshotView) page(limit, offset int) ([]models.RankedRow, error) {
	var entries []models.LeaderboardEntry
	err := v.db.Where("season_id = ? AND snapshot_date = ?", v.seasonID, v.snapshotDate).
		Order("rank ASC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, storeErr("snapshot page", err)
	}
	return snapshotRows(entries), nil
}

func (v *snapshotView) window(lo, hi int64) ([]models.RankedRow, error) {
	var entries []models.LeaderboardEntry
	err := v.db.Where("season_id = ? AND snapshot_date = ? AND rank BETWEEN ? AND ?",
		v.seasonID, v.snapshotDate, lo, hi).
		Order("rank ASC").
		Find(&entries).Error
	if err != nil {
		return nil, storeErr("snapshot window", err)
	}
	return snapshotRows(entries), nil
}

func snapshotRows(entries []models.LeaderboardEntry) []models.RankedRow {
	rows := make([]models.RankedRow, len(entries))
	for i, e := range entries {
		rows[i] = models.RankedRow{
			Rank:           e.Rank,
			ExternalUserID: e.ExternalUserID,
			Points:         e.Points,
			Tier:           e.Tier,
		}
	}
	return rows
}

// --- live approximate view ---

// liveView orders ticket-holder stats on the fly. Rank here is approximate:
// it counts strictly-greater points, so tied players all report the same
// rank. Acceptable because this path only serves the window before the first
// administrative snapshot of a season.
type liveView struct {
	db       *gorm.DB
	seasonID string
}

// liveOrder is the fixed tie-break used wherever live standings are listed:
// points first, then stats row creation time, then player id. Immutable per
// player, so repeated listing is reproducible.
const liveOrder = "points DESC, created_at ASC, external_user_id ASC"

func (v *liveView) rank(externalUserID string) (*models.RankedRow, error) {
	var stats models.PlayerSeasonStats
	err := v.db.Where("external_user_id = ? AND season_id = ?", externalUserID, v.seasonID).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Zero-value default: unranked players count all ticket holders
		// with any points above them.
		stats = models.PlayerSeasonStats{ExternalUserID: externalUserID, SeasonID: v.seasonID}
	} else if err != nil {
		return nil, storeErr("live stats", err)
	}

	var above int64
	err = v.db.Model(&models.PlayerSeasonStats{}).
		Where("season_id = ? AND has_entry_ticket = ? AND points > ?", v.seasonID, true, stats.Points).
		Count(&above).Error
	if err != nil {
		return nil, storeErr("live rank count", err)
	}

	return &models.RankedRow{
		Rank:           above + 1,
		ExternalUserID: externalUserID,
		Points:         stats.Points,
		Tier:           models.TierForPoints(stats.Points),
	}, nil
}

func (v *liveView) page(limit, offset int) ([]models.RankedRow, error) {
	var stats []models.PlayerSeasonStats
	err := v.db.Where("season_id = ? AND has_entry_ticket = ?", v.seasonID, true).
		Order(liveOrder).
		Limit(limit).Offset(offset).
		Find(&stats).Error
	if err != nil {
		return nil, storeErr("live page", err)
	}

	rows := make([]models.RankedRow, len(stats))
	for i, st := range stats {
		rows[i] = models.RankedRow{
			Rank:           int64(offset + i + 1),
			ExternalUserID: st.ExternalUserID,
			Points:         st.Points,
			Tier:           models.TierForPoints(st.Points),
		}
	}
	return rows, nil
}

func (v *liveView) window(lo, hi int64) ([]models.RankedRow, error) {
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		return []models.RankedRow{}, nil
	}
	return v.page(int(hi-lo+1), int(lo-1))
}

// --- public API ---

// Rank returns the player's current standing. With a snapshot generation the
// stored row wins; a player missing from the snapshot (joined after it was
// taken) falls back to the live approximation.
func (s *LeaderboardService) Rank(externalUserID, seasonID string) (*models.RankedRow, error) {
	if row, ok := s.cachedRank(seasonID, externalUserID); ok {
		return row, nil
	}

	view, err := s.viewFor(seasonID)
	if err != nil {
		return nil, err
	}

	row, err := view.rank(externalUserID)
	if errors.Is(err, ErrNotFound) {
		live := &liveView{db: s.DB, seasonID: seasonID}
		row, err = live.rank(externalUserID)
	}
	if err != nil {
		return nil, err
	}

	s.storeCachedRank(seasonID, externalUserID, row)
	return row, nil
}

// Leaderboard returns one page of standings with display names resolved.
func (s *LeaderboardService) Leaderboard(seasonID string, limit, offset int) ([]models.RankedRow, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	if rows, ok := s.cachedPage(seasonID, limit, offset); ok {
		return rows, nil
	}

	view, err := s.viewFor(seasonID)
	if err != nil {
		return nil, err
	}
	rows, err := view.page(limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.resolveNames(rows); err != nil {
		return nil, err
	}

	s.storeCachedPage(seasonID, limit, offset, rows)
	return rows, nil
}

// Neighborhood returns a contiguous window of standings centered on the
// player. The player's own entry is always included: if a concurrent
// snapshot regeneration moved them out of the naive window, their row is
// fetched separately and spliced back in, then the window is re-sorted.
func (s *LeaderboardService) Neighborhood(externalUserID, seasonID string, radius int64) ([]models.RankedRow, error) {
	if radius < 1 || radius > 50 {
		radius = 5
	}

	self, err := s.Rank(externalUserID, seasonID)
	if err != nil {
		return nil, err
	}

	lo := self.Rank - radius
	if lo < 1 {
		lo = 1
	}
	hi := self.Rank + radius

	view, err := s.viewFor(seasonID)
	if err != nil {
		return nil, err
	}
	rows, err := view.window(lo, hi)
	if err != nil {
		return nil, err
	}

	found := false
	for _, r := range rows {
		if r.ExternalUserID == externalUserID {
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, *self)
		sort.Slice(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	}

	if err := s.resolveNames(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *LeaderboardService) resolveNames(rows []models.RankedRow) error {
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ExternalUserID
	}

	names := map[string]string{}
	if s.Resolver != nil {
		resolved, err := s.Resolver.Names(ids)
		if err != nil {
			// Names are cosmetic; standings must still render.
			log.Printf("[leaderboard] name resolution failed, using placeholders: %v", err)
		} else {
			names = resolved
		}
	}

	for i := range rows {
		if n, ok := names[rows[i].ExternalUserID]; ok && n != "" {
			rows[i].DisplayName = n
		} else {
			rows[i].DisplayName = placeholderName(rows[i].ExternalUserID)
		}
	}
	return nil
}

// --- snapshot generation ---

// seasonLock returns the serialization mutex for one season's snapshots.
func (s *LeaderboardService) seasonLock(seasonID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.snapshots[seasonID]
	if !ok {
		m = &sync.Mutex{}
		s.snapshots[seasonID] = m
	}
	return m
}

// Snapshot writes one full ranked generation for "now". Ranks are dense,
// 1-based, ordered by points descending with the same immutable tie-break as
// the live view, so re-running with identical inputs reproduces the same
// ordering. Serialized per season; the composite unique index backstops a
// second process racing the same generation.
func (s *LeaderboardService) Snapshot(seasonID string) (int, error) {
	lock := s.seasonLock(seasonID)
	lock.Lock()
	defer lock.Unlock()

	var stats []models.PlayerSeasonStats
	err := s.DB.Where("season_id = ? AND has_entry_ticket = ?", seasonID, true).
		Order(liveOrder).
		Find(&stats).Error
	if err != nil {
		return 0, storeErr("snapshot stats", err)
	}

	snapshotDate := time.Now().UTC()
	entries := make([]models.LeaderboardEntry, len(stats))
	for i, st := range stats {
		entries[i] = models.LeaderboardEntry{
			ID:             uuid.NewString(),
			SeasonID:       seasonID,
			ExternalUserID: st.ExternalUserID,
			SnapshotDate:   snapshotDate,
			Rank:           int64(i + 1),
			Points:         st.Points,
			Tier:           models.TierForPoints(st.Points),
		}
	}

	if len(entries) > 0 {
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			return tx.CreateInBatches(entries, 500).Error
		})
		if err != nil {
			return 0, storeErr("snapshot write", err)
		}
	}

	s.invalidateCache(seasonID)
	snapshotsTaken.Inc()
	log.Printf("[leaderboard] snapshot for season %s: %d entries at %s",
		seasonID, len(entries), snapshotDate.Format(time.RFC3339))
	return len(entries), nil
}

// LatestGeneration returns every row of the most recent snapshot, rank
// ascending. Used by season close and the audit archive.
func (s *LeaderboardService) LatestGeneration(seasonID string) ([]models.LeaderboardEntry, error) {
	snapDate, err := s.latestSnapshotDate(seasonID)
	if err != nil {
		return nil, err
	}
	if snapDate == nil {
		return nil, ErrNotFound
	}

	var entries []models.LeaderboardEntry
	err = s.DB.Where("season_id = ? AND snapshot_date = ?", seasonID, *snapDate).
		Order("rank ASC").
		Find(&entries).Error
	if err != nil {
		return nil, storeErr("latest generation", err)
	}
	return entries, nil
}

// --- redis cache (optional) ---

// Cache keys carry a per-season version bumped on every snapshot, so
// invalidation is one INCR instead of a key scan.
func (s *LeaderboardService) cacheVersion(seasonID string) int64 {
	if s.Cache == nil {
		return 0
	}
	v, err := s.Cache.Get(context.Background(), "lb:ver:"+seasonID).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (s *LeaderboardService) invalidateCache(seasonID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Incr(context.Background(), "lb:ver:"+seasonID).Err(); err != nil {
		log.Printf("[leaderboard] cache invalidation failed for %s: %v", seasonID, err)
	}
}

func (s *LeaderboardService) cachedPage(seasonID string, limit, offset int) ([]models.RankedRow, bool) {
	if s.Cache == nil {
		return nil, false
	}
	key := fmt.Sprintf("lb:page:%s:%d:%d:%d", seasonID, s.cacheVersion(seasonID), limit, offset)
	raw, err := s.Cache.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []models.RankedRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (s *LeaderboardService) storeCachedPage(seasonID string, limit, offset int, rows []models.RankedRow) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	key := fmt.Sprintf("lb:page:%s:%d:%d:%d", seasonID, s.cacheVersion(seasonID), limit, offset)
	s.Cache.Set(context.Background(), key, raw, leaderboardCacheTTL)
}

func (s *LeaderboardService) cachedRank(seasonID, externalUserID string) (*models.RankedRow, bool) {
	if s.Cache == nil {
		return nil, false
	}
	key := fmt.Sprintf("lb:rank:%s:%d:%s", seasonID, s.cacheVersion(seasonID), externalUserID)
	raw, err := s.Cache.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	var row models.RankedRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, false
	}
	return &row, true
}

func (s *LeaderboardService) storeCachedRank(seasonID, externalUserID string, row *models.RankedRow) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return
	}
	key := fmt.Sprintf("lb:rank:%s:%d:%s", seasonID, s.cacheVersion(seasonID), externalUserID)
	s.Cache.Set(context.Background(), key, raw, leaderboardCacheTTL)
}

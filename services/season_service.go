package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"season-economy-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SeasonService resolves seasons for the economy services and hosts the
// administrative provisioning path. The economy side only ever reads.
type SeasonService struct {
	DB *gorm.DB
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{DB: db}
}

// Current resolves "the season players are in right now". Resolution
// degrades rather than hard-fails, because "no season" disables the whole
// mode:
//
//  1. active season whose date range contains now
//  2. any active season (tolerates administrative clock skew)
//  3. any season at all (freshly seeded or mis-tagged table)
//
// Returns ErrNotFound only when the season table is empty.
func (s *SeasonService) Current() (*models.Season, error) {
	now := time.Now().UTC()

	var season models.Season
	err := s.DB.Where("status = ? AND start_time <= ? AND end_time >= ?",
		models.SeasonStatusActive, now, now).
		Order("start_time DESC").
		First(&season).Error
	if err == nil {
		return &season, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("resolve current season", err)
	}

	err = s.DB.Where("status = ?", models.SeasonStatusActive).
		Order("start_time DESC").
		First(&season).Error
	if err == nil {
		log.Printf("[season] no active season covers %s, falling back to latest active", now.Format(time.RFC3339))
		return &season, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr("resolve active season", err)
	}

	err = s.DB.Order("start_time DESC").First(&season).Error
	if err == nil {
		log.Printf("[season] no active season at all, falling back to latest season %s", season.ID)
		return &season, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return nil, storeErr("resolve any season", err)
}

// Upcoming lists seasons that have not started yet, soonest first.
func (s *SeasonService) Upcoming(limit int) ([]models.Season, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var seasons []models.Season
	err := s.DB.Where("status = ? OR start_time > ?", models.SeasonStatusUpcoming, time.Now().UTC()).
		Order("start_time ASC").
		Limit(limit).
		Find(&seasons).Error
	if err != nil {
		return nil, storeErr("list upcoming seasons", err)
	}
	return seasons, nil
}

// Past lists completed seasons, most recent first.
func (s *SeasonService) Past(limit int) ([]models.Season, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var seasons []models.Season
	err := s.DB.Where("status = ?", models.SeasonStatusCompleted).
		Order("end_time DESC").
		Limit(limit).
		Find(&seasons).Error
	if err != nil {
		return nil, storeErr("list past seasons", err)
	}
	return seasons, nil
}

// ByID fetches one season.
func (s *SeasonService) ByID(id string) (*models.Season, error) {
	var season models.Season
	err := s.DB.Where("id = ?", id).First(&season).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("fetch season", err)
	}
	return &season, nil
}

// --- Administrative provisioning ---

// CreateSeason provisions a new season row. The slug is derived from the
// name and must be unique.
func (s *SeasonService) CreateSeason(name, description string, start, end time.Time) (*models.Season, error) {
	if name == "" {
		return nil, fmt.Errorf("season name is required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("season end must be after start")
	}

	season := models.Season{
		ID:          uuid.NewString(),
		Slug:        slug.Make(name),
		Name:        name,
		Description: description,
		Status:      models.SeasonStatusUpcoming,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
	}
	if err := s.DB.Create(&season).Error; err != nil {
		return nil, storeErr("create season", err)
	}
	log.Printf("[season] provisioned %s (%s) %s → %s", season.Name, season.ID,
		season.StartTime.Format(time.RFC3339), season.EndTime.Format(time.RFC3339))
	return &season, nil
}

// UpdateSeason edits the descriptive fields and window of a season that has
// not completed. The slug follows a name change.
func (s *SeasonService) UpdateSeason(id string, name, description *string, start, end *time.Time) (*models.Season, error) {
	season, err := s.ByID(id)
	if err != nil {
		return nil, err
	}
	if season.Status == models.SeasonStatusCompleted {
		return nil, fmt.Errorf("%w: completed seasons are immutable", ErrPreconditionFailed)
	}

	if name != nil && *name != "" {
		season.Name = *name
		season.Slug = slug.Make(*name)
	}
	if description != nil {
		season.Description = *description
	}
	if start != nil {
		season.StartTime = start.UTC()
	}
	if end != nil {
		season.EndTime = end.UTC()
	}
	if !season.EndTime.After(season.StartTime) {
		return nil, fmt.Errorf("season end must be after start")
	}

	if err := s.DB.Save(season).Error; err != nil {
		return nil, storeErr("update season", err)
	}
	return season, nil
}

// UpdateStatus moves a season through its lifecycle. Transitions are
// monotonic: upcoming → active → completed; anything else is rejected.
func (s *SeasonService) UpdateStatus(id string, status models.SeasonStatus) (*models.Season, error) {
	season, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	allowed := map[models.SeasonStatus]models.SeasonStatus{
		models.SeasonStatusUpcoming: models.SeasonStatusActive,
		models.SeasonStatusActive:   models.SeasonStatusCompleted,
	}
	if next, ok := allowed[season.Status]; !ok || next != status {
		return nil, fmt.Errorf("%w: cannot move season from %s to %s", ErrPreconditionFailed, season.Status, status)
	}

	season.Status = status
	if err := s.DB.Save(season).Error; err != nil {
		return nil, storeErr("update season status", err)
	}
	return season, nil
}

package services

import (
	"errors"
	"testing"
	"time"

	"season-economy-system/models"

	"github.com/google/uuid"
)

func TestCurrentPrefersActiveInRange(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	stale := models.Season{
		ID:        uuid.NewString(),
		Slug:      "stale",
		Name:      "Stale",
		Status:    models.SeasonStatusActive,
		StartTime: now.Add(-72 * time.Hour),
		EndTime:   now.Add(-48 * time.Hour),
	}
	live := models.Season{
		ID:        uuid.NewString(),
		Slug:      "live",
		Name:      "Live",
		Status:    models.SeasonStatusActive,
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&live).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	season, err := svc.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if season.ID != live.ID {
		t.Fatalf("current = %s, want the in-range active season", season.Slug)
	}
}

func TestCurrentFallsBackToAnyActive(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	// Active but its window has lapsed; still better than nothing.
	season := models.Season{
		ID:        uuid.NewString(),
		Slug:      "lapsed",
		Name:      "Lapsed",
		Status:    models.SeasonStatusActive,
		StartTime: now.Add(-72 * time.Hour),
		EndTime:   now.Add(-48 * time.Hour),
	}
	if err := db.Create(&season).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.ID != season.ID {
		t.Fatalf("current = %s, want lapsed active season", got.Slug)
	}
}

func TestCurrentFallsBackToAnySeason(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	season := models.Season{
		ID:        uuid.NewString(),
		Slug:      "done",
		Name:      "Done",
		Status:    models.SeasonStatusCompleted,
		StartTime: now.Add(-72 * time.Hour),
		EndTime:   now.Add(-48 * time.Hour),
	}
	if err := db.Create(&season).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if got.ID != season.ID {
		t.Fatalf("current = %s, want the only season", got.Slug)
	}
}

func TestCurrentEmptyTable(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)

	_, err := svc.Current()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateSeason(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	season, err := svc.CreateSeason("Spring Clash 2026", "opening season", now, now.Add(30*24*time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if season.Slug != "spring-clash-2026" {
		t.Fatalf("slug = %q", season.Slug)
	}
	if season.Status != models.SeasonStatusUpcoming {
		t.Fatalf("status = %q, want upcoming", season.Status)
	}

	if _, err := svc.CreateSeason("", "", now, now.Add(time.Hour)); err == nil {
		t.Fatal("empty name accepted")
	}
	if _, err := svc.CreateSeason("Bad Window", "", now, now.Add(-time.Hour)); err == nil {
		t.Fatal("end before start accepted")
	}
}

func TestUpdateStatusMonotonic(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	season, err := svc.CreateSeason("Lifecycle", "", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Skipping straight to completed is rejected.
	if _, err := svc.UpdateStatus(season.ID, models.SeasonStatusCompleted); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("upcoming->completed: err = %v, want ErrPreconditionFailed", err)
	}

	s, err := svc.UpdateStatus(season.ID, models.SeasonStatusActive)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if s.Status != models.SeasonStatusActive {
		t.Fatalf("status = %q", s.Status)
	}

	s, err = svc.UpdateStatus(season.ID, models.SeasonStatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.Status != models.SeasonStatusCompleted {
		t.Fatalf("status = %q", s.Status)
	}

	// Terminal: nothing moves out of completed.
	if _, err := svc.UpdateStatus(season.ID, models.SeasonStatusActive); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("completed->active: err = %v, want ErrPreconditionFailed", err)
	}
}

func TestUpdateSeason(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	season, err := svc.CreateSeason("Draft Name", "", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Summer Showdown"
	updated, err := svc.UpdateSeason(season.ID, &name, nil, nil, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name || updated.Slug != "summer-showdown" {
		t.Fatalf("rename not applied: %+v", updated)
	}

	badEnd := now.Add(-time.Hour)
	if _, err := svc.UpdateSeason(season.ID, nil, nil, nil, &badEnd); err == nil {
		t.Fatal("end before start accepted")
	}

	// Completed seasons are frozen.
	if _, err := svc.UpdateStatus(season.ID, models.SeasonStatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, err := svc.UpdateStatus(season.ID, models.SeasonStatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.UpdateSeason(season.ID, &name, nil, nil, nil); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestUpcomingAndPastListings(t *testing.T) {
	db := openTestDB(t)
	svc := NewSeasonService(db)
	now := time.Now().UTC()

	past := models.Season{
		ID: uuid.NewString(), Slug: "past", Name: "Past",
		Status:    models.SeasonStatusCompleted,
		StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-24 * time.Hour),
	}
	future := models.Season{
		ID: uuid.NewString(), Slug: "future", Name: "Future",
		Status:    models.SeasonStatusUpcoming,
		StartTime: now.Add(24 * time.Hour), EndTime: now.Add(48 * time.Hour),
	}
	for _, s := range []*models.Season{&past, &future} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	up, err := svc.Upcoming(10)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(up) != 1 || up[0].ID != future.ID {
		t.Fatalf("upcoming = %+v", up)
	}

	pastList, err := svc.Past(10)
	if err != nil {
		t.Fatalf("past: %v", err)
	}
	if len(pastList) != 1 || pastList[0].ID != past.ID {
		t.Fatalf("past = %+v", pastList)
	}
}

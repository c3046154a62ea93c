package models

import (
	"time"
)

// SeasonStatus is the administrative lifecycle state of a season.
type SeasonStatus string

const (
	SeasonStatusUpcoming  SeasonStatus = "upcoming"
	SeasonStatusActive    SeasonStatus = "active"
	SeasonStatusCompleted SeasonStatus = "completed"
)

// Season is a date-bounded competitive window. Rows are provisioned by the
// admin surface; the economy services only ever read them.
type Season struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	Slug        string       `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	Status      SeasonStatus `json:"status" gorm:"type:varchar(16);default:'upcoming';index"`
	StartTime   time.Time    `json:"start_time" gorm:"not null;index"`
	EndTime     time.Time    `json:"end_time" gorm:"not null;index"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// Contains reports whether the season's [start, end] window covers t.
func (s *Season) Contains(t time.Time) bool {
	return !t.Before(s.StartTime) && !t.After(s.EndTime)
}

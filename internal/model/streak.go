package model

import (
	"time"

	"github.com/google/uuid"
)

// StreakPeriod reasons. "broken" closes a run, "new" marks the start of a
// run, "maintained" is written by the sweep when a record survives inside
// the one-day grace window.
const (
	StreakReasonBroken     = "broken"
	StreakReasonNew        = "new"
	StreakReasonMaintained = "maintained"
)

// StreakRecord is the per-learner cached summary, one row per learner,
// upserted on every activity event and by the maintenance sweep.
//
// Invariants: CurrentStreak <= LongestStreak; CurrentStreak == 0 iff
// StreakStartDate is null. LongestStreak never decreases.
type StreakRecord struct {
	LearnerID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"learner_id"`
	Learner          Learner        `gorm:"foreignKey:LearnerID;constraint:OnDelete:CASCADE" json:"-"`
	CurrentStreak    int            `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak    int            `gorm:"not null;default:0" json:"longest_streak"`
	LastActivityDate *time.Time     `json:"last_activity_date"`
	StreakStartDate  *time.Time     `json:"streak_start_date"`
	TotalDaysActive  int            `gorm:"not null;default:0" json:"total_days_active"`
	History          []StreakPeriod `gorm:"foreignKey:LearnerID;references:LearnerID" json:"streak_history,omitempty"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// StreakPeriod is one entry in a learner's streak history. EndDate is null
// for "new" entries (the run is still open when the entry is written).
type StreakPeriod struct {
	ID        uint       `gorm:"primaryKey" json:"-"`
	LearnerID uuid.UUID  `gorm:"type:uuid;index:idx_streak_period_learner;not null" json:"-"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Duration  int        `gorm:"not null" json:"duration"`
	Reason    string     `gorm:"size:20;not null" json:"reason"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityEvent is one append-only record per learner action. Rows are never
// updated or deleted by the engine; retention is an external concern.
type ActivityEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID    uuid.UUID      `gorm:"type:uuid;index:idx_learner_occurred,priority:1;not null" json:"learner_id"`
	Learner      Learner        `gorm:"foreignKey:LearnerID;constraint:OnDelete:CASCADE" json:"-"`
	ActivityType string         `gorm:"size:50;not null" json:"activity_type"`
	ActivityData datatypes.JSON `json:"activity_data,omitempty"`
	// Points is derived from ActivityType at append time and stored
	// redundantly for audit history.
	Points     int       `gorm:"not null" json:"points"`
	OccurredAt time.Time `gorm:"index:idx_learner_occurred,priority:2,sort:desc;not null" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *ActivityEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return nil
}

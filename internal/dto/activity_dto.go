package dto

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecordActivityRequest is the self-service ingest body; the learner ID
// comes from the JWT subject. ActivityData is opaque to the engine.
type RecordActivityRequest struct {
	ActivityType string         `json:"activity_type" binding:"required"`
	ActivityData datatypes.JSON `json:"activity_data,omitempty"`
}

// AdminRecordActivityRequest ingests on behalf of a learner.
type AdminRecordActivityRequest struct {
	LearnerID    uuid.UUID      `json:"learner_id" binding:"required"`
	ActivityType string         `json:"activity_type" binding:"required"`
	ActivityData datatypes.JSON `json:"activity_data,omitempty"`
}

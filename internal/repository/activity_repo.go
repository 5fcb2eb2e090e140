package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/model"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Append(ctx context.Context, event *model.ActivityEvent) error
	// ListRecent returns up to limit events, most-recent-first. Totals
	// derived from it are exact within that window only.
	ListRecent(ctx context.Context, learnerID uuid.UUID, limit int) ([]model.ActivityEvent, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, event *model.ActivityEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *activityRepository) ListRecent(ctx context.Context, learnerID uuid.UUID, limit int) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *activityRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ActivityEvent{}).
		Where("occurred_at >= ?", since).
		Count(&count).Error
	return count, err
}

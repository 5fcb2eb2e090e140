package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository interface {
	// FindByLearnerID returns nil (no error) when the learner has no record.
	FindByLearnerID(ctx context.Context, learnerID uuid.UUID) (*model.StreakRecord, error)
	FindWithHistory(ctx context.Context, learnerID uuid.UUID) (*model.StreakRecord, error)
	Upsert(ctx context.Context, record *model.StreakRecord) error
	AppendHistory(ctx context.Context, entry *model.StreakPeriod) error
	CountHistoryByReasonSince(ctx context.Context, learnerID uuid.UUID, reason string, since time.Time) (int64, error)
	FindActive(ctx context.Context) ([]model.StreakRecord, error)
	// CloseOut zeroes a lapsed record only if it still matches the streak
	// value and last activity date that were read, so a sweep racing a
	// same-day activity event never clobbers a just-extended streak.
	CloseOut(ctx context.Context, record *model.StreakRecord) (bool, error)
	TopByStreak(ctx context.Context, limit int) ([]model.StreakRecord, error)
	CountActive(ctx context.Context) (int64, error)
}

type streakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) FindByLearnerID(ctx context.Context, learnerID uuid.UUID) (*model.StreakRecord, error) {
	var record model.StreakRecord
	err := r.db.WithContext(ctx).Where("learner_id = ?", learnerID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *streakRepository) FindWithHistory(ctx context.Context, learnerID uuid.UUID) (*model.StreakRecord, error) {
	var record model.StreakRecord
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("learner_id = ?", learnerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *streakRepository) Upsert(ctx context.Context, record *model.StreakRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "learner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_streak",
			"longest_streak",
			"last_activity_date",
			"streak_start_date",
			"total_days_active",
			"updated_at",
		}),
	}).Omit("History").Create(record).Error
}

func (r *streakRepository) AppendHistory(ctx context.Context, entry *model.StreakPeriod) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *streakRepository) CountHistoryByReasonSince(ctx context.Context, learnerID uuid.UUID, reason string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StreakPeriod{}).
		Where("learner_id = ? AND reason = ? AND created_at >= ?", learnerID, reason, since).
		Count(&count).Error
	return count, err
}

func (r *streakRepository) FindActive(ctx context.Context) ([]model.StreakRecord, error) {
	var records []model.StreakRecord
	err := r.db.WithContext(ctx).
		Where("current_streak > 0").
		Find(&records).Error
	return records, err
}

func (r *streakRepository) CloseOut(ctx context.Context, record *model.StreakRecord) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.StreakRecord{}).
		Where("learner_id = ? AND current_streak = ? AND last_activity_date = ?",
			record.LearnerID, record.CurrentStreak, record.LastActivityDate).
		Updates(map[string]interface{}{
			"current_streak":    0,
			"streak_start_date": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *streakRepository) TopByStreak(ctx context.Context, limit int) ([]model.StreakRecord, error) {
	var records []model.StreakRecord
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Order("current_streak DESC, longest_streak DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *streakRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StreakRecord{}).
		Where("current_streak > 0").
		Count(&count).Error
	return count, err
}

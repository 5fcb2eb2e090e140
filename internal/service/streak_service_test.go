package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/repository"
	"github.com/learnloop/streakengine/internal/service"
	"github.com/learnloop/streakengine/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Learner{},
		&model.ActivityEvent{},
		&model.StreakRecord{},
		&model.StreakPeriod{},
	))
	return db
}

func createLearner(t *testing.T, db *gorm.DB, name string) *model.Learner {
	t.Helper()
	learner := &model.Learner{Name: name, Email: name + "@example.com", Role: model.RoleLearner}
	require.NoError(t, db.Create(learner).Error)
	return learner
}

func newStreakService(db *gorm.DB) service.StreakService {
	return service.NewStreakService(
		db,
		repository.NewActivityRepository(db),
		repository.NewStreakRepository(db),
		repository.NewLearnerRepository(db),
		time.UTC,
		365,
	)
}

func seedEvent(t *testing.T, db *gorm.DB, learnerID uuid.UUID, activityType string, occurredAt time.Time) {
	t.Helper()
	event := &model.ActivityEvent{
		LearnerID:    learnerID,
		ActivityType: activityType,
		Points:       service.PointsForActivity(activityType),
		OccurredAt:   occurredAt,
	}
	require.NoError(t, db.Create(event).Error)
}

func historyByReason(record *model.StreakRecord, reason string) []model.StreakPeriod {
	var entries []model.StreakPeriod
	for _, entry := range record.History {
		if entry.Reason == reason {
			entries = append(entries, entry)
		}
	}
	return entries
}

func TestRecordActivityFirstEver(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	record, err := svc.RecordActivity(context.Background(), learner.ID, service.ActivityQuizComplete, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, record.CurrentStreak)
	assert.Equal(t, 1, record.LongestStreak)
	assert.Equal(t, 1, record.TotalDaysActive)
	assert.NotNil(t, record.LastActivityDate)
	assert.NotNil(t, record.StreakStartDate)

	newEntries := historyByReason(record, model.StreakReasonNew)
	require.Len(t, newEntries, 1)
	assert.Equal(t, 1, newEntries[0].Duration)

	var event model.ActivityEvent
	require.NoError(t, db.Where("learner_id = ?", learner.ID).First(&event).Error)
	assert.Equal(t, 8, event.Points)
	assert.Equal(t, service.ActivityQuizComplete, event.ActivityType)
}

func TestRecordActivityRejectsUnknownType(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	_, err := svc.RecordActivity(context.Background(), learner.ID, "binge_scrolling", nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidActivityType)

	var count int64
	require.NoError(t, db.Model(&model.ActivityEvent{}).Count(&count).Error)
	assert.Zero(t, count, "rejected events must not reach the log")
}

func TestRecordActivityUnknownLearner(t *testing.T) {
	db := newTestDB(t)
	svc := newStreakService(db)

	_, err := svc.RecordActivity(context.Background(), uuid.New(), service.ActivityForumPost, nil)
	assert.ErrorIs(t, err, apperror.ErrLearnerNotFound)
}

func TestRecordActivitySameDayDoesNotGrowStreak(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	_, err := svc.RecordActivity(context.Background(), learner.ID, service.ActivityCourseProgress, nil)
	require.NoError(t, err)
	record, err := svc.RecordActivity(context.Background(), learner.ID, service.ActivityForumPost, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, record.CurrentStreak)
	assert.Equal(t, 1, record.TotalDaysActive)
	assert.Len(t, historyByReason(record, model.StreakReasonNew), 1)

	var points int64
	require.NoError(t, db.Model(&model.ActivityEvent{}).
		Where("learner_id = ?", learner.ID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&points).Error)
	assert.EqualValues(t, 13, points, "points accrue per event even on the same day")
}

func TestRecordActivityAfterGapAppendsBrokenEntry(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)
	streaks := repository.NewStreakRepository(db)

	now := time.Now()
	dayMinus5 := now.AddDate(0, 0, -5)
	dayMinus4 := now.AddDate(0, 0, -4)
	seedEvent(t, db, learner.ID, service.ActivityCourseProgress, dayMinus5)
	seedEvent(t, db, learner.ID, service.ActivityCourseProgress, dayMinus4)

	require.NoError(t, streaks.Upsert(context.Background(), &model.StreakRecord{
		LearnerID:        learner.ID,
		CurrentStreak:    2,
		LongestStreak:    2,
		LastActivityDate: &dayMinus4,
		StreakStartDate:  &dayMinus5,
		TotalDaysActive:  2,
	}))

	record, err := svc.RecordActivity(context.Background(), learner.ID, service.ActivityLiveClassAttend, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, record.CurrentStreak, "a new run starts after the gap")
	assert.GreaterOrEqual(t, record.LongestStreak, 2)
	assert.Equal(t, 3, record.TotalDaysActive)

	broken := historyByReason(record, model.StreakReasonBroken)
	require.Len(t, broken, 1)
	assert.Equal(t, 2, broken[0].Duration)
	require.NotNil(t, broken[0].EndDate)

	require.Len(t, historyByReason(record, model.StreakReasonNew), 1)
}

func TestRecordActivityLongestStreakMonotonic(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)
	streaks := repository.NewStreakRepository(db)

	require.NoError(t, streaks.Upsert(context.Background(), &model.StreakRecord{
		LearnerID:     learner.ID,
		LongestStreak: 10,
	}))

	record, err := svc.RecordActivity(context.Background(), learner.ID, service.ActivityReplayWatch, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, record.CurrentStreak)
	assert.Equal(t, 10, record.LongestStreak, "longest streak never decreases")
	assert.LessOrEqual(t, record.CurrentStreak, record.LongestStreak)
}

func TestGetStreakLazyCreatesEmptyRecord(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	record, err := svc.GetStreak(context.Background(), learner.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, record.CurrentStreak)
	assert.Equal(t, 0, record.LongestStreak)
	assert.Equal(t, 0, record.TotalDaysActive)
	assert.Nil(t, record.LastActivityDate)
	assert.Nil(t, record.StreakStartDate)
	assert.Empty(t, record.History)

	var count int64
	require.NoError(t, db.Model(&model.StreakRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "first status query persists the record")
}

func TestGetStreakIdempotent(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	_, err := svc.RecordActivity(context.Background(), learner.ID, service.ActivityAssignmentSubmit, nil)
	require.NoError(t, err)

	first, err := svc.GetStreak(context.Background(), learner.ID)
	require.NoError(t, err)
	second, err := svc.GetStreak(context.Background(), learner.ID)
	require.NoError(t, err)

	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
	assert.Equal(t, first.LongestStreak, second.LongestStreak)
	assert.Equal(t, first.TotalDaysActive, second.TotalDaysActive)
	assert.Equal(t, len(first.History), len(second.History))
}

func TestGetStreakBootstrapsFromExistingLog(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	now := time.Now()
	for d := 0; d < 3; d++ {
		seedEvent(t, db, learner.ID, service.ActivityCourseProgress, now.AddDate(0, 0, -d))
	}

	record, err := svc.GetStreak(context.Background(), learner.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, record.CurrentStreak)
	assert.Equal(t, 3, record.LongestStreak)
	assert.Equal(t, 3, record.TotalDaysActive)

	newEntries := historyByReason(record, model.StreakReasonNew)
	require.Len(t, newEntries, 1)
	assert.Equal(t, 3, newEntries[0].Duration)
}

func TestRecentActivitiesMostRecentFirst(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "ava")
	svc := newStreakService(db)

	now := time.Now()
	seedEvent(t, db, learner.ID, service.ActivityForumPost, now.Add(-2*time.Hour))
	seedEvent(t, db, learner.ID, service.ActivityQuizComplete, now.Add(-1*time.Hour))
	seedEvent(t, db, learner.ID, service.ActivityCourseProgress, now)

	events, err := svc.RecentActivities(context.Background(), learner.ID, 2)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, service.ActivityCourseProgress, events[0].ActivityType)
	assert.Equal(t, service.ActivityQuizComplete, events[1].ActivityType)
}

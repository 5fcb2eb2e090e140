package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/repository"
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

func TestUpsertCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "priya")
	repo := repository.NewStreakRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:        learner.ID,
		CurrentStreak:    1,
		LongestStreak:    1,
		LastActivityDate: &now,
		StreakStartDate:  &now,
		TotalDaysActive:  1,
	}))

	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:        learner.ID,
		CurrentStreak:    2,
		LongestStreak:    2,
		LastActivityDate: &now,
		StreakStartDate:  &now,
		TotalDaysActive:  2,
	}))

	var count int64
	require.NoError(t, db.Model(&model.StreakRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "upsert must not create a second row")

	record, err := repo.FindByLearnerID(ctx, learner.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 2, record.CurrentStreak)
	assert.Equal(t, 2, record.TotalDaysActive)
}

func TestFindByLearnerIDMissingReturnsNil(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "priya")
	repo := repository.NewStreakRepository(db)

	record, err := repo.FindByLearnerID(context.Background(), learner.ID)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestCloseOutSkipsChangedRecord(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "priya")
	repo := repository.NewStreakRepository(db)
	ctx := context.Background()

	twoDaysAgo := time.Now().AddDate(0, 0, -2)
	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:        learner.ID,
		CurrentStreak:    5,
		LongestStreak:    5,
		LastActivityDate: &twoDaysAgo,
		StreakStartDate:  &twoDaysAgo,
		TotalDaysActive:  5,
	}))

	records, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	stale := records[0]

	// The record is extended between the sweep's read and its write.
	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:        learner.ID,
		CurrentStreak:    6,
		LongestStreak:    6,
		LastActivityDate: &now,
		StreakStartDate:  &twoDaysAgo,
		TotalDaysActive:  6,
	}))

	swapped, err := repo.CloseOut(ctx, &stale)
	require.NoError(t, err)
	assert.False(t, swapped, "close-out must not clobber a just-extended streak")

	record, err := repo.FindByLearnerID(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, record.CurrentStreak)
}

func TestCloseOutZeroesMatchingRecord(t *testing.T) {
	db := newTestDB(t)
	learner := createLearner(t, db, "priya")
	repo := repository.NewStreakRepository(db)
	ctx := context.Background()

	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:        learner.ID,
		CurrentStreak:    4,
		LongestStreak:    9,
		LastActivityDate: &threeDaysAgo,
		StreakStartDate:  &threeDaysAgo,
		TotalDaysActive:  11,
	}))

	records, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	swapped, err := repo.CloseOut(ctx, &records[0])
	require.NoError(t, err)
	assert.True(t, swapped)

	record, err := repo.FindByLearnerID(ctx, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, record.CurrentStreak)
	assert.Nil(t, record.StreakStartDate)
	assert.Equal(t, 9, record.LongestStreak)
	assert.Equal(t, 11, record.TotalDaysActive)
}

func TestFindActiveExcludesZeroStreaks(t *testing.T) {
	db := newTestDB(t)
	active := createLearner(t, db, "active")
	idle := createLearner(t, db, "idle")
	repo := repository.NewStreakRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:        active.ID,
		CurrentStreak:    3,
		LongestStreak:    3,
		LastActivityDate: &now,
		StreakStartDate:  &now,
		TotalDaysActive:  3,
	}))
	require.NoError(t, repo.Upsert(ctx, &model.StreakRecord{
		LearnerID:     idle.ID,
		LongestStreak: 2,
	}))

	records, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, active.ID, records[0].LearnerID)
}

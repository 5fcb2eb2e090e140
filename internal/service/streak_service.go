package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/repository"
	"github.com/learnloop/streakengine/pkg/apperror"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const lockStripes = 64

type StreakService interface {
	// RecordActivity appends the event, recomputes the learner's streak
	// metrics over the bounded history and upserts the streak record, all
	// in one transaction.
	RecordActivity(ctx context.Context, learnerID uuid.UUID, activityType string, payload datatypes.JSON) (*model.StreakRecord, error)
	// GetStreak lazily creates the record from whatever history exists.
	GetStreak(ctx context.Context, learnerID uuid.UUID) (*model.StreakRecord, error)
	RecentActivities(ctx context.Context, learnerID uuid.UUID, limit int) ([]model.ActivityEvent, error)
}

type streakService struct {
	db         *gorm.DB
	activities repository.ActivityRepository
	streaks    repository.StreakRepository
	learners   repository.LearnerRepository
	loc        *time.Location
	lookback   int

	// Per-learner critical section: two concurrent events from the same
	// learner must not produce divergent history entries.
	locks [lockStripes]sync.Mutex
}

func NewStreakService(db *gorm.DB, activities repository.ActivityRepository, streaks repository.StreakRepository, learners repository.LearnerRepository, loc *time.Location, lookbackEvents int) StreakService {
	return &streakService{
		db:         db,
		activities: activities,
		streaks:    streaks,
		learners:   learners,
		loc:        loc,
		lookback:   lookbackEvents,
	}
}

func (s *streakService) lockFor(learnerID uuid.UUID) *sync.Mutex {
	idx := binary.BigEndian.Uint32(learnerID[:4]) % lockStripes
	return &s.locks[idx]
}

func (s *streakService) RecordActivity(ctx context.Context, learnerID uuid.UUID, activityType string, payload datatypes.JSON) (*model.StreakRecord, error) {
	if !IsValidActivityType(activityType) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidActivityType, activityType)
	}
	if _, err := s.learners.FindByID(ctx, learnerID); err != nil {
		return nil, err
	}

	lock := s.lockFor(learnerID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		activities := repository.NewActivityRepository(tx)
		streaks := repository.NewStreakRepository(tx)

		prior, err := streaks.FindByLearnerID(ctx, learnerID)
		if err != nil {
			return err
		}

		event := &model.ActivityEvent{
			LearnerID:    learnerID,
			ActivityType: activityType,
			ActivityData: payload,
			Points:       PointsForActivity(activityType),
			OccurredAt:   now,
		}
		if err := activities.Append(ctx, event); err != nil {
			return err
		}

		history, err := activities.ListRecent(ctx, learnerID, s.lookback)
		if err != nil {
			return err
		}
		result := CalculateStreaks(history, now, s.loc)

		if err := s.writeHistoryEntries(ctx, streaks, learnerID, prior, result, now); err != nil {
			return err
		}

		return streaks.Upsert(ctx, buildRecord(learnerID, prior, result))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
	}

	return s.streaks.FindWithHistory(ctx, learnerID)
}

func (s *streakService) GetStreak(ctx context.Context, learnerID uuid.UUID) (*model.StreakRecord, error) {
	if _, err := s.learners.FindByID(ctx, learnerID); err != nil {
		return nil, err
	}

	lock := s.lockFor(learnerID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.streaks.FindWithHistory(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
	}
	if existing != nil {
		return existing, nil
	}

	// First touch: derive from whatever history exists and persist.
	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		activities := repository.NewActivityRepository(tx)
		streaks := repository.NewStreakRepository(tx)

		history, err := activities.ListRecent(ctx, learnerID, s.lookback)
		if err != nil {
			return err
		}
		result := CalculateStreaks(history, now, s.loc)

		if err := s.writeHistoryEntries(ctx, streaks, learnerID, nil, result, now); err != nil {
			return err
		}

		return streaks.Upsert(ctx, buildRecord(learnerID, nil, result))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
	}

	return s.streaks.FindWithHistory(ctx, learnerID)
}

func (s *streakService) RecentActivities(ctx context.Context, learnerID uuid.UUID, limit int) ([]model.ActivityEvent, error) {
	if _, err := s.learners.FindByID(ctx, learnerID); err != nil {
		return nil, err
	}
	if limit < 1 || limit > s.lookback {
		limit = s.lookback
	}
	return s.activities.ListRecent(ctx, learnerID, limit)
}

// buildRecord folds a computed result into the upserted row. LongestStreak
// only ever grows.
func buildRecord(learnerID uuid.UUID, prior *model.StreakRecord, result StreakResult) *model.StreakRecord {
	longest := result.LongestStreak
	if prior != nil && prior.LongestStreak > longest {
		longest = prior.LongestStreak
	}
	return &model.StreakRecord{
		LearnerID:        learnerID,
		CurrentStreak:    result.CurrentStreak,
		LongestStreak:    longest,
		LastActivityDate: result.LastActivityDate,
		StreakStartDate:  result.StreakStartDate,
		TotalDaysActive:  result.TotalDaysActive,
	}
}

// writeHistoryEntries appends the period entries a recompute implies: a
// "broken" close-out when the prior run lapsed, and a "new" marker whenever
// a run starts.
func (s *streakService) writeHistoryEntries(ctx context.Context, streaks repository.StreakRepository, learnerID uuid.UUID, prior *model.StreakRecord, result StreakResult, now time.Time) error {
	if s.breakDetected(prior, result, now) {
		startDate := *prior.LastActivityDate
		if prior.StreakStartDate != nil {
			startDate = *prior.StreakStartDate
		}
		entry := &model.StreakPeriod{
			LearnerID: learnerID,
			StartDate: startDate,
			EndDate:   prior.LastActivityDate,
			Duration:  prior.CurrentStreak,
			Reason:    model.StreakReasonBroken,
		}
		if err := streaks.AppendHistory(ctx, entry); err != nil {
			return err
		}
	}

	runStarted := result.CurrentStreak >= 1 &&
		(prior == nil || prior.CurrentStreak == 0 || s.breakDetected(prior, result, now))
	if runStarted {
		entry := &model.StreakPeriod{
			LearnerID: learnerID,
			StartDate: *result.StreakStartDate,
			Duration:  result.CurrentStreak,
			Reason:    model.StreakReasonNew,
		}
		if err := streaks.AppendHistory(ctx, entry); err != nil {
			return err
		}
	}

	return nil
}

// breakDetected reports whether the prior run lapsed: the learner had a live
// streak, the recompute collapsed it to a fresh single-day run, and more
// than one calendar day passed since their last activity.
func (s *streakService) breakDetected(prior *model.StreakRecord, result StreakResult, now time.Time) bool {
	return prior != nil &&
		prior.CurrentStreak > 0 &&
		prior.LastActivityDate != nil &&
		result.CurrentStreak == 1 &&
		daysBetween(dayOf(*prior.LastActivityDate, s.loc), dayOf(now, s.loc)) > 1
}

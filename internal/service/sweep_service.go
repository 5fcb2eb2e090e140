package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/learnloop/streakengine/internal/model"
	"github.com/learnloop/streakengine/internal/repository"
	"github.com/learnloop/streakengine/pkg/apperror"
	"gorm.io/gorm"
)

type SweepService interface {
	// Sweep closes out every record whose streak lapsed (no activity for
	// more than one calendar day) and returns how many were closed.
	// Idempotent: re-running on the same day is a no-op.
	Sweep(ctx context.Context) (int, error)
	Start() error
	Stop()
}

type sweepService struct {
	db        *gorm.DB
	streaks   repository.StreakRepository
	loc       *time.Location
	schedule  string
	scheduler *gocron.Scheduler

	// Serializes the scheduled run against the admin trigger so the
	// once-per-day maintained guard holds across concurrent sweeps.
	mu sync.Mutex
}

func NewSweepService(db *gorm.DB, streaks repository.StreakRepository, loc *time.Location, schedule string) SweepService {
	return &sweepService{
		db:        db,
		streaks:   streaks,
		loc:       loc,
		schedule:  schedule,
		scheduler: gocron.NewScheduler(loc),
	}
}

func (s *sweepService) Start() error {
	_, err := s.scheduler.Cron(s.schedule).Do(func() {
		closed, err := s.Sweep(context.Background())
		if err != nil {
			log.Printf("maintenance sweep failed: %v", err)
			return
		}
		log.Printf("maintenance sweep closed out %d lapsed streaks", closed)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance sweep: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *sweepService) Stop() {
	s.scheduler.Stop()
}

func (s *sweepService) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.streaks.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
	}

	now := time.Now()
	today := dayOf(now, s.loc)

	closed := 0
	for i := range records {
		record := &records[i]
		if record.LastActivityDate == nil {
			continue
		}
		gap := daysBetween(dayOf(*record.LastActivityDate, s.loc), today)

		switch {
		case gap <= 0:
			// Active today, nothing to do.

		case gap == 1:
			if err := s.recordMaintained(ctx, record, today); err != nil {
				return closed, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
			}

		default:
			swapped, err := s.closeOut(ctx, record)
			if err != nil {
				return closed, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
			}
			if swapped {
				closed++
			}
		}
	}

	return closed, nil
}

// recordMaintained notes a record surviving the sweep inside the grace
// window, at most once per calendar day.
func (s *sweepService) recordMaintained(ctx context.Context, record *model.StreakRecord, today time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		streaks := repository.NewStreakRepository(tx)

		count, err := streaks.CountHistoryByReasonSince(ctx, record.LearnerID, model.StreakReasonMaintained, today)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		return streaks.AppendHistory(ctx, &model.StreakPeriod{
			LearnerID: record.LearnerID,
			StartDate: runStart(record),
			Duration:  record.CurrentStreak,
			Reason:    model.StreakReasonMaintained,
		})
	})
}

// closeOut zeroes a lapsed record and appends its broken history entry in
// one transaction, so a storage failure never leaves a zeroed streak without
// its close-out entry. The conditional update skips records extended between
// the sweep's read and its write.
func (s *sweepService) closeOut(ctx context.Context, record *model.StreakRecord) (bool, error) {
	swapped := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		streaks := repository.NewStreakRepository(tx)

		var err error
		swapped, err = streaks.CloseOut(ctx, record)
		if err != nil {
			return err
		}
		if !swapped {
			return nil
		}

		return streaks.AppendHistory(ctx, &model.StreakPeriod{
			LearnerID: record.LearnerID,
			StartDate: runStart(record),
			EndDate:   record.LastActivityDate,
			Duration:  record.CurrentStreak,
			Reason:    model.StreakReasonBroken,
		})
	})
	if err != nil {
		return false, err
	}
	return swapped, nil
}

func runStart(record *model.StreakRecord) time.Time {
	if record.StreakStartDate != nil {
		return *record.StreakStartDate
	}
	return *record.LastActivityDate
}

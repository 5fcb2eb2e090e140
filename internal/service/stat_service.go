package service

import (
	"context"
	"time"

	"github.com/learnloop/streakengine/internal/dto"
	"github.com/learnloop/streakengine/internal/repository"
)

type StatService interface {
	GetEngineStats(ctx context.Context) (*dto.EngineStats, error)
}

type statService struct {
	learners   repository.LearnerRepository
	streaks    repository.StreakRepository
	activities repository.ActivityRepository
	loc        *time.Location
}

func NewStatService(learners repository.LearnerRepository, streaks repository.StreakRepository, activities repository.ActivityRepository, loc *time.Location) StatService {
	return &statService{
		learners:   learners,
		streaks:    streaks,
		activities: activities,
		loc:        loc,
	}
}

func (s *statService) GetEngineStats(ctx context.Context) (*dto.EngineStats, error) {
	totalLearners, err := s.learners.Count(ctx)
	if err != nil {
		return nil, err
	}

	activeStreaks, err := s.streaks.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	eventsToday, err := s.activities.CountSince(ctx, dayOf(time.Now(), s.loc))
	if err != nil {
		return nil, err
	}

	return &dto.EngineStats{
		TotalLearners: totalLearners,
		ActiveStreaks: activeStreaks,
		EventsToday:   eventsToday,
	}, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/learnloop/streakengine/internal/dto"
	"github.com/learnloop/streakengine/internal/repository"
	"github.com/learnloop/streakengine/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

type LeaderboardService interface {
	// TopLearners ranks learners by current streak, ties broken by longest
	// streak. Read-only.
	TopLearners(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	streaks  repository.StreakRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

// rdb may be nil; the leaderboard then skips caching entirely.
func NewLeaderboardService(streaks repository.StreakRepository, rdb *redis.Client, cacheTTL time.Duration) LeaderboardService {
	return &leaderboardService{
		streaks:  streaks,
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

func (s *leaderboardService) TopLearners(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var entries []dto.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	records, err := s.streaks.TopByStreak(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrStorageUnavailable, err)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(records))
	for i, record := range records {
		entries = append(entries, dto.LeaderboardEntry{
			LearnerID:       record.LearnerID,
			Name:            record.Learner.Name,
			AvatarURL:       record.Learner.AvatarURL,
			Position:        i + 1,
			CurrentStreak:   record.CurrentStreak,
			LongestStreak:   record.LongestStreak,
			TotalDaysActive: record.TotalDaysActive,
		})
	}

	if s.rdb != nil {
		payload, err := json.Marshal(entries)
		if err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Printf("failed to cache leaderboard: %v", err)
			}
		}
	}

	return entries, nil
}

package dto

import "github.com/google/uuid"

// LeaderboardEntry is one ranked learner. Position is 1-based.
type LeaderboardEntry struct {
	LearnerID       uuid.UUID `json:"learner_id"`
	Name            string    `json:"name"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Position        int       `json:"position"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	TotalDaysActive int       `json:"total_days_active"`
}

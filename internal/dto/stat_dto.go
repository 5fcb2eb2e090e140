package dto

type EngineStats struct {
	TotalLearners int64 `json:"total_learners"`
	ActiveStreaks int64 `json:"active_streaks"`
	EventsToday   int64 `json:"events_today"`
}

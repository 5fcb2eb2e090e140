package service

import (
	"math"
	"sort"
	"time"

	"github.com/learnloop/streakengine/internal/model"
)

// StreakResult is the output of one streak derivation over a learner's
// activity history.
type StreakResult struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *time.Time
	StreakStartDate  *time.Time
	TotalDaysActive  int
	HasActivityToday bool
}

// CalculateStreaks derives streak metrics from a learner's activity history.
// events is most-recent-first; now defines "today"; loc defines the calendar
// day boundary. Pure function, no error paths: malformed input is defended
// against at ingestion, not here.
//
// A learner active yesterday but not yet today keeps their accumulated
// streak. Zeroing a lapsed streak is the maintenance sweep's job, never this
// read path's.
func CalculateStreaks(events []model.ActivityEvent, now time.Time, loc *time.Location) StreakResult {
	if len(events) == 0 {
		return StreakResult{}
	}

	active := make(map[time.Time]bool)
	var lastActivity time.Time
	for _, event := range events {
		active[dayOf(event.OccurredAt, loc)] = true
		if event.OccurredAt.After(lastActivity) {
			lastActivity = event.OccurredAt
		}
	}

	today := dayOf(now, loc)
	hasToday := active[today]

	// Walk backward from today (or yesterday, when today has no activity
	// yet) one calendar day at a time, stopping at the first gap.
	day := today
	if !hasToday {
		day = today.AddDate(0, 0, -1)
	}
	current := 0
	var startDate *time.Time
	for active[day] {
		current++
		start := day
		startDate = &start
		day = day.AddDate(0, 0, -1)
	}

	days := make([]time.Time, 0, len(active))
	for d := range active {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest := current
	run := 0
	for i, d := range days {
		if i > 0 && daysBetween(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return StreakResult{
		CurrentStreak:    current,
		LongestStreak:    longest,
		LastActivityDate: &lastActivity,
		StreakStartDate:  startDate,
		TotalDaysActive:  len(days),
		HasActivityToday: hasToday,
	}
}

// dayOf truncates t to midnight in loc.
func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b, both already at midnight.
// Rounding absorbs DST-shortened or -lengthened days.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

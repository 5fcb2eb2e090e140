package service

// The six recognized activity types. Anything else is rejected before it
// reaches the activity log.
const (
	ActivityCourseProgress   = "course_progress"
	ActivityAssignmentSubmit = "assignment_submit"
	ActivityLiveClassAttend  = "live_class_attend"
	ActivityReplayWatch      = "replay_watch"
	ActivityQuizComplete     = "quiz_complete"
	ActivityForumPost        = "forum_post"
)

// DefaultActivityPoints is the fallback for an unknown type. Unreachable in
// practice because the enum is validated at ingestion.
const DefaultActivityPoints = 5

var activityPoints = map[string]int{
	ActivityCourseProgress:   10,
	ActivityAssignmentSubmit: 15,
	ActivityLiveClassAttend:  20,
	ActivityReplayWatch:      5,
	ActivityQuizComplete:     8,
	ActivityForumPost:        3,
}

func IsValidActivityType(activityType string) bool {
	_, ok := activityPoints[activityType]
	return ok
}

func PointsForActivity(activityType string) int {
	if points, ok := activityPoints[activityType]; ok {
		return points
	}
	return DefaultActivityPoints
}

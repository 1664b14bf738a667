package srs

import "time"

// Status is the coarse performance badge shown per topic.
type Status string

const (
	StatusNew   Status = "new"
	StatusGood  Status = "good"
	StatusGreat Status = "great"
	StatusBad   Status = "bad"
)

// Classify maps the most recent accuracy to a Status. A topic that has never
// been reviewed is always new.
func (p Policy) Classify(accuracy float64, totalReviews int) Status {
	switch {
	case totalReviews <= 0:
		return StatusNew
	case accuracy >= p.GreatThreshold:
		return StatusGreat
	case accuracy >= p.GoodThreshold:
		return StatusGood
	default:
		return StatusBad
	}
}

// Classify applies DefaultPolicy.
func Classify(accuracy float64, totalReviews int) Status {
	return DefaultPolicy.Classify(accuracy, totalReviews)
}

// ReviewStatus is the lifecycle tag of a topic. It is never stored.
type ReviewStatus string

const (
	ReviewNew       ReviewStatus = "new"
	ReviewScheduled ReviewStatus = "scheduled"
	ReviewDue       ReviewStatus = "due"
)

// ReviewStatusAt derives the lifecycle tag from the due time. A nil
// nextReviewAt means the topic was never reviewed.
func ReviewStatusAt(nextReviewAt *time.Time, now time.Time) ReviewStatus {
	if nextReviewAt == nil {
		return ReviewNew
	}
	if !nextReviewAt.After(now) {
		return ReviewDue
	}
	return ReviewScheduled
}

// DaysUntil returns (nextReviewAt - now) in days; negative when overdue and
// zero for topics that have never been reviewed.
func DaysUntil(nextReviewAt *time.Time, now time.Time) float64 {
	if nextReviewAt == nil {
		return 0
	}
	return float64(nextReviewAt.Sub(now)) / float64(Day)
}

// IsDue reports whether a topic should be offered for review now.
func IsDue(nextReviewAt *time.Time, now time.Time) bool {
	rs := ReviewStatusAt(nextReviewAt, now)
	return rs == ReviewNew || rs == ReviewDue
}

package scheduler

import (
	"context"

	"github.com/betterlearn/betterlearn-api/srs"
)

// Progress summarizes review coverage across all topics.
type Progress struct {
	Total int `json:"total"`
	// Reviewed counts topics with at least one submitted review.
	Reviewed int `json:"reviewed"`
	// Due counts reviewed topics whose next review time has passed.
	Due                int     `json:"due"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

func (s *Scheduler) Progress(ctx context.Context) (Progress, error) {
	topics, err := s.store.List(ctx)
	if err != nil {
		return Progress{}, err
	}
	now := s.now()
	p := Progress{Total: len(topics)}
	for _, t := range topics {
		if t.TotalReviews > 0 {
			p.Reviewed++
		}
		if srs.ReviewStatusAt(t.NextReviewAt, now) == srs.ReviewDue {
			p.Due++
		}
	}
	if p.Total > 0 {
		p.ProgressPercentage = float64(p.Reviewed) / float64(p.Total) * 100
	}
	return p, nil
}

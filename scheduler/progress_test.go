package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	ctx := context.Background()
	s, c := newScheduler(t, nil, nil)

	p, err := s.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p != (Progress{}) {
		t.Fatalf("empty progress: got=%+v", p)
	}

	for _, name := range []string{"Algebra", "Biology", "Chemistry", "Drawing"} {
		if _, err := s.CreateTopic(ctx, name); err != nil {
			t.Fatalf("CreateTopic(%q): %v", name, err)
		}
	}
	a, _ := s.Topic(ctx, "Algebra")
	b, _ := s.Topic(ctx, "Biology")
	// Algebra: 1 day. Biology: 2 days.
	if _, err := s.SubmitReview(ctx, Outcome{TopicID: a.ID, TotalQuestions: 10, CorrectAnswers: 1}); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if _, err := s.SubmitReview(ctx, Outcome{TopicID: b.ID, TotalQuestions: 10, CorrectAnswers: 10}); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	c.Advance(25 * time.Hour)
	p, err = s.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	want := Progress{Total: 4, Reviewed: 2, Due: 1, ProgressPercentage: 50}
	if p != want {
		t.Fatalf("progress: got=%+v want=%+v", p, want)
	}
}

package srs

import (
	"errors"
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestNextIntervalGrowsOnStrongRecall(t *testing.T) {
	for _, current := range []float64{1, 1.5, 2, 7, 30, 100} {
		for _, acc := range []float64{0.9, 0.95, 1} {
			got := NextInterval(current, acc)
			if got <= current {
				t.Fatalf("NextInterval(%v, %v)=%v, want > %v", current, acc, got, current)
			}
			if got > DefaultPolicy.MaxInterval {
				t.Fatalf("NextInterval(%v, %v)=%v exceeds max %v", current, acc, got, DefaultPolicy.MaxInterval)
			}
		}
	}
}

func TestNextIntervalClampsToMaximum(t *testing.T) {
	got := NextInterval(300, 1)
	if got != DefaultPolicy.MaxInterval {
		t.Fatalf("got=%v want=%v", got, DefaultPolicy.MaxInterval)
	}
}

func TestNextIntervalResetsOnWeakRecall(t *testing.T) {
	for _, current := range []float64{1, 2, 45, 365} {
		for _, acc := range []float64{0, 0.1, 0.3, 0.59} {
			if got := NextInterval(current, acc); got != DefaultPolicy.MinInterval {
				t.Fatalf("NextInterval(%v, %v)=%v, want %v", current, acc, got, DefaultPolicy.MinInterval)
			}
		}
	}
}

func TestNextIntervalBands(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		accuracy float64
		want     float64
	}{
		{name: "great_doubles", current: 1, accuracy: 0.9, want: 2},
		{name: "good_moderate", current: 10, accuracy: 0.6, want: 13},
		{name: "good_upper_edge", current: 10, accuracy: 0.89, want: 13},
		{name: "bad_resets", current: 10, accuracy: 0.3, want: 1},
		{name: "below_min_clamped", current: 0.2, accuracy: 0.7, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextInterval(tc.current, tc.accuracy)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("NextInterval(%v, %v)=%v, want %v", tc.current, tc.accuracy, got, tc.want)
			}
		})
	}
}

func TestNextIntervalDeterministic(t *testing.T) {
	a := NextInterval(3.7, 0.75)
	for i := 0; i < 100; i++ {
		if b := NextInterval(3.7, 0.75); b != a {
			t.Fatalf("non-deterministic: %v vs %v", a, b)
		}
	}
}

func TestAccuracy(t *testing.T) {
	if got, err := Accuracy(9, 10); err != nil || got != 0.9 {
		t.Fatalf("Accuracy(9,10)=%v,%v", got, err)
	}
	for _, tc := range []struct{ correct, total int }{{0, 0}, {1, -1}, {-1, 5}, {6, 5}} {
		if _, err := Accuracy(tc.correct, tc.total); !errors.Is(err, ErrInvalidAccuracy) {
			t.Fatalf("Accuracy(%d,%d) err=%v, want ErrInvalidAccuracy", tc.correct, tc.total, err)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		accuracy float64
		reviews  int
		want     Status
	}{
		{1, 0, StatusNew},
		{0, 0, StatusNew},
		{0.9, 1, StatusGreat},
		{0.89, 3, StatusGood},
		{0.6, 2, StatusGood},
		{0.59, 2, StatusBad},
		{0, 8, StatusBad},
	}
	for _, tc := range cases {
		if got := Classify(tc.accuracy, tc.reviews); got != tc.want {
			t.Fatalf("Classify(%v, %d)=%q, want %q", tc.accuracy, tc.reviews, got, tc.want)
		}
	}
}

func TestReviewStatusAt(t *testing.T) {
	past := t0.Add(-time.Hour)
	future := t0.Add(time.Hour)
	if got := ReviewStatusAt(nil, t0); got != ReviewNew {
		t.Fatalf("nil: got=%q", got)
	}
	if got := ReviewStatusAt(&past, t0); got != ReviewDue {
		t.Fatalf("past: got=%q", got)
	}
	if got := ReviewStatusAt(&t0, t0); got != ReviewDue {
		t.Fatalf("now: got=%q", got)
	}
	if got := ReviewStatusAt(&future, t0); got != ReviewScheduled {
		t.Fatalf("future: got=%q", got)
	}
	if !IsDue(nil, t0) || !IsDue(&past, t0) || IsDue(&future, t0) {
		t.Fatal("IsDue mismatch")
	}
}

func TestDaysUntil(t *testing.T) {
	in2 := NextReviewAt(t0, 2)
	if got := DaysUntil(&in2, t0); math.Abs(got-2) > 1e-9 {
		t.Fatalf("got=%v want=2", got)
	}
	ago := t0.Add(-12 * time.Hour)
	if got := DaysUntil(&ago, t0); math.Abs(got+0.5) > 1e-9 {
		t.Fatalf("got=%v want=-0.5", got)
	}
	if got := DaysUntil(nil, t0); got != 0 {
		t.Fatalf("got=%v want=0", got)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy.Validate(); err != nil {
		t.Fatalf("default policy: %v", err)
	}
	bad := []func(*Policy){
		func(p *Policy) { p.MinInterval = 0 },
		func(p *Policy) { p.MaxInterval = 0.5 },
		func(p *Policy) { p.SeedInterval = 400 },
		func(p *Policy) { p.GreatGrowth = 1 },
		func(p *Policy) { p.GoodThreshold = 0.95 },
		func(p *Policy) { p.GreatThreshold = 1.2 },
		func(p *Policy) { p.GoodGrowth = math.NaN() },
	}
	for i, mutate := range bad {
		p := DefaultPolicy
		mutate(&p)
		if err := p.Validate(); !errors.Is(err, ErrInvalidPolicy) {
			t.Fatalf("case %d: err=%v, want ErrInvalidPolicy", i, err)
		}
	}
}

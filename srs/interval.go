package srs

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidAccuracy is returned by Accuracy for malformed counts.
var ErrInvalidAccuracy = errors.New("srs: invalid accuracy")

// Accuracy returns correct/total. total must be positive and correct within
// [0, total].
func Accuracy(correct, total int) (float64, error) {
	if total <= 0 {
		return 0, fmt.Errorf("%w: total_questions must be positive, got %d", ErrInvalidAccuracy, total)
	}
	if correct < 0 || correct > total {
		return 0, fmt.Errorf("%w: correct_answers %d outside [0, %d]", ErrInvalidAccuracy, correct, total)
	}
	return float64(correct) / float64(total), nil
}

// NextInterval grows or resets current according to accuracy and clamps the
// result to [MinInterval, MaxInterval].
func (p Policy) NextInterval(current, accuracy float64) float64 {
	var next float64
	switch {
	case accuracy >= p.GreatThreshold:
		next = current * p.GreatGrowth
	case accuracy >= p.GoodThreshold:
		next = current * p.GoodGrowth
	default:
		next = p.MinInterval
	}
	return p.clamp(next)
}

func (p Policy) clamp(interval float64) float64 {
	if interval < p.MinInterval {
		return p.MinInterval
	}
	if interval > p.MaxInterval {
		return p.MaxInterval
	}
	return interval
}

// NextInterval applies DefaultPolicy.
func NextInterval(current, accuracy float64) float64 {
	return DefaultPolicy.NextInterval(current, accuracy)
}

// NextReviewAt converts an interval in days to an absolute due time.
func NextReviewAt(now time.Time, interval float64) time.Time {
	return now.Add(time.Duration(interval * float64(Day)))
}

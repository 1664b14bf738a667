// Package srs holds the pure spaced-repetition rules: interval growth and
// decay, status classification, and the read-time review lifecycle.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("srs: invalid policy")

// Day is the unit intervals are expressed in.
const Day = 24 * time.Hour

// Policy carries the numeric knobs of the scheduler. Intervals are in days.
type Policy struct {
	SeedInterval float64
	MinInterval  float64
	MaxInterval  float64

	// GreatGrowth applies at accuracy >= GreatThreshold, GoodGrowth at
	// GoodThreshold <= accuracy < GreatThreshold. Below GoodThreshold the
	// interval resets to MinInterval.
	GreatGrowth    float64
	GoodGrowth     float64
	GreatThreshold float64
	GoodThreshold  float64
}

// DefaultPolicy is the policy used when nothing is configured.
var DefaultPolicy = Policy{
	SeedInterval:   1,
	MinInterval:    1,
	MaxInterval:    365,
	GreatGrowth:    2.0,
	GoodGrowth:     1.3,
	GreatThreshold: 0.9,
	GoodThreshold:  0.6,
}

// Validate reports whether the policy is internally consistent.
func (p Policy) Validate() error {
	switch {
	case !finite(p.SeedInterval, p.MinInterval, p.MaxInterval, p.GreatGrowth, p.GoodGrowth, p.GreatThreshold, p.GoodThreshold):
		return fmt.Errorf("%w: non-finite value", ErrInvalidPolicy)
	case p.MinInterval <= 0:
		return fmt.Errorf("%w: minimum interval must be positive, got %v", ErrInvalidPolicy, p.MinInterval)
	case p.MaxInterval < p.MinInterval:
		return fmt.Errorf("%w: maximum interval %v below minimum %v", ErrInvalidPolicy, p.MaxInterval, p.MinInterval)
	case p.SeedInterval < p.MinInterval || p.SeedInterval > p.MaxInterval:
		return fmt.Errorf("%w: seed interval %v outside [%v, %v]", ErrInvalidPolicy, p.SeedInterval, p.MinInterval, p.MaxInterval)
	case p.GreatGrowth <= 1 || p.GoodGrowth <= 1:
		return fmt.Errorf("%w: growth factors must exceed 1", ErrInvalidPolicy)
	case p.GoodThreshold <= 0 || p.GreatThreshold > 1:
		return fmt.Errorf("%w: thresholds must lie in (0, 1]", ErrInvalidPolicy)
	case p.GoodThreshold >= p.GreatThreshold:
		return fmt.Errorf("%w: good threshold %v must be below great threshold %v", ErrInvalidPolicy, p.GoodThreshold, p.GreatThreshold)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

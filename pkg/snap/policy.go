package snap

import (
	"errors"
	"fmt"
	"math"
)

// Policy holds the tunable constants of the scoring and hysteresis rules
type Policy struct {
	DistanceWeight         float64 // subtracted per pixel of screen distance
	StableReferenceBonus   float64
	VisibleBonus           float64
	StickinessBonus        float64 // added to the candidate matching the last preview
	SwitchThreshold        float64 // margin a new best needs over the previous snap
	SameReferenceTolerance float64 // world/local units

	Priority PriorityWeights
}

// PriorityWeights is the base score per candidate kind
type PriorityWeights struct {
	Point        float64
	Intersection float64
	Center       float64
	Edge         float64
	Face         float64
	Other        float64
}

// DefaultPolicy returns the standard weights
func DefaultPolicy() Policy {
	return Policy{
		DistanceWeight:         3.0,
		StableReferenceBonus:   30.0,
		VisibleBonus:           20.0,
		StickinessBonus:        15.0,
		SwitchThreshold:        8.0,
		SameReferenceTolerance: 1e-4,
		Priority: PriorityWeights{
			Point:        120,
			Intersection: 115,
			Center:       110,
			Edge:         100,
			Face:         95,
			Other:        50,
		},
	}
}

// PriorityWeight returns the base score for a kind
func (p Policy) PriorityWeight(k Kind) float64 {
	switch k {
	case KindPoint:
		return p.Priority.Point
	case KindIntersection:
		return p.Priority.Intersection
	case KindCenter:
		return p.Priority.Center
	case KindEdge:
		return p.Priority.Edge
	case KindFace:
		return p.Priority.Face
	default:
		return p.Priority.Other
	}
}

// Validate checks that every constant is finite and that the weights which
// are only meaningful as magnitudes are not negative.
func (p Policy) Validate() error {
	fields := []struct {
		name   string
		value  float64
		nonNeg bool
	}{
		{"distance_weight", p.DistanceWeight, true},
		{"stable_reference_bonus", p.StableReferenceBonus, false},
		{"visible_bonus", p.VisibleBonus, false},
		{"stickiness_bonus", p.StickinessBonus, false},
		{"switch_threshold", p.SwitchThreshold, true},
		{"same_reference_tolerance", p.SameReferenceTolerance, true},
		{"priority.point", p.Priority.Point, false},
		{"priority.intersection", p.Priority.Intersection, false},
		{"priority.center", p.Priority.Center, false},
		{"priority.edge", p.Priority.Edge, false},
		{"priority.face", p.Priority.Face, false},
		{"priority.other", p.Priority.Other, false},
	}

	var errs []error
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			errs = append(errs, fmt.Errorf("%s must be finite, got %v", f.name, f.value))
		case f.nonNeg && f.value < 0:
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", f.name, f.value))
		}
	}
	return errors.Join(errs...)
}

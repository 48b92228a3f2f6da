package snap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/philipparndt/dimsnap/pkg/geometry"
)

// ErrInvalidDistance is returned by Validate for distances the selector cannot rank
var ErrInvalidDistance = errors.New("invalid screen distance")

// DefaultSnapTolerancePx is the screen radius used when a Context does not set one
const DefaultSnapTolerancePx = 12.0

// Candidate is one possible snap target produced by the picking layer for a frame.
// Candidates are values: selection never modifies the caller's copy.
type Candidate struct {
	Kind                Kind
	ElementID           string // empty when not tied to a persistent element
	WorldPoint          geometry.Vector3
	LocalPoint          geometry.Vector3 // element-local, compared when ElementID is set
	ScreenDistancePx    float64
	IsVisibleInView     bool
	IsValidForDimension bool
	HasStableReference  bool

	// Score is assigned during ranking and is not part of the reference identity
	Score float64
}

// WithScore returns a copy of the candidate carrying the given score
func (c Candidate) WithScore(score float64) Candidate {
	c.Score = score
	return c
}

// Validate rejects candidates whose screen distance is NaN, infinite or negative.
// Producers call it before handing candidates to the selector.
func (c Candidate) Validate() error {
	d := c.ScreenDistancePx
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, d)
	}
	return nil
}

func (c Candidate) String() string {
	if c.ElementID != "" {
		return fmt.Sprintf("%s@%s(%.3f, %.3f, %.3f)", c.Kind, c.ElementID, c.WorldPoint.X, c.WorldPoint.Y, c.WorldPoint.Z)
	}
	return fmt.Sprintf("%s(%.3f, %.3f, %.3f)", c.Kind, c.WorldPoint.X, c.WorldPoint.Y, c.WorldPoint.Z)
}

// SameReference reports whether a and b denote the same snap reference.
// Kinds and element IDs must match exactly. With a non-blank element ID the
// local points are compared, otherwise the world points, both within tol.
// Score is ignored. This is only meant for hysteresis matching, not for
// deduplication or map keys.
func SameReference(a, b Candidate, tol float64) bool {
	if a.Kind != b.Kind || a.ElementID != b.ElementID {
		return false
	}
	if strings.TrimSpace(a.ElementID) != "" {
		return a.LocalPoint.Near(b.LocalPoint, tol)
	}
	return a.WorldPoint.Near(b.WorldPoint, tol)
}

// Context is the per-query selection configuration
type Context struct {
	SnapTolerancePx float64
	RequestedKind   Kind
	// LastPreviewSnap is the previous frame's choice, used only for hysteresis
	LastPreviewSnap *Candidate
}

// NewContext returns a context with the default tolerance and no kind filter
func NewContext() Context {
	return Context{SnapTolerancePx: DefaultSnapTolerancePx, RequestedKind: KindNone}
}

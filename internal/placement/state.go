// Package placement tracks an in-progress two-point dimension and feeds each
// frame's snap choice back into the next frame's selection context.
package placement

import (
	"github.com/philipparndt/dimsnap/pkg/geometry"
	"github.com/philipparndt/dimsnap/pkg/snap"
)

// State holds the references captured so far for one dimension placement
type State struct {
	FirstReference  *snap.Candidate
	SecondReference *snap.Candidate
	LastPreviewSnap *snap.Candidate // snap highlighted in the previous frame
}

// IsPlacing reports whether the first reference is captured and the second is still open
func (s *State) IsPlacing() bool {
	return s.FirstReference != nil && s.SecondReference == nil
}

// IsComplete reports whether both references are captured
func (s *State) IsComplete() bool {
	return s.FirstReference != nil && s.SecondReference != nil
}

// SetFirst captures the first reference
func (s *State) SetFirst(c snap.Candidate) {
	s.FirstReference = &c
	s.SecondReference = nil
}

// SetSecond captures the second reference
func (s *State) SetSecond(c snap.Candidate) {
	s.SecondReference = &c
}

// UpdatePreview stores this frame's snap, or clears it when c is nil
func (s *State) UpdatePreview(c *snap.Candidate) {
	if c == nil {
		s.LastPreviewSnap = nil
		return
	}
	preview := *c
	s.LastPreviewSnap = &preview
}

// Reset clears all references and ends the interaction
func (s *State) Reset() {
	s.FirstReference = nil
	s.SecondReference = nil
	s.LastPreviewSnap = nil
}

// Dimension is a completed two-point dimension
type Dimension struct {
	First  snap.Candidate
	Second snap.Candidate
}

// Length returns the world-space distance between the two references
func (d Dimension) Length() float64 {
	return d.First.WorldPoint.Distance(d.Second.WorldPoint)
}

// Delta returns the per-axis extent from the first to the second reference
func (d Dimension) Delta() geometry.Vector3 {
	return d.Second.WorldPoint.Sub(d.First.WorldPoint)
}

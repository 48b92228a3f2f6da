package placement

import (
	"errors"
	"sync"

	"github.com/philipparndt/dimsnap/pkg/snap"
	"go.uber.org/zap"
)

var (
	// ErrNoSnap is returned by Click when no candidate is eligible
	ErrNoSnap = errors.New("no snap target under cursor")
	// ErrDegenerateDimension is returned when the second reference is the first one again
	ErrDegenerateDimension = errors.New("second reference equals first reference")
)

// Session drives one dimension-placement interaction, frame by frame.
// It is owned by a single interaction loop; the mutex only guards policy
// swaps coming from a config reload.
type Session struct {
	mu        sync.Mutex
	policy    snap.Policy
	tolerance float64
	state     State
	logger    *zap.Logger
}

// NewSession creates a session using the given policy and snap tolerance in pixels
func NewSession(policy snap.Policy, tolerancePx float64, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		policy:    policy,
		tolerance: tolerancePx,
		logger:    logger,
	}
}

// SetPolicy replaces the scoring policy and tolerance used from the next frame on
func (s *Session) SetPolicy(policy snap.Policy, tolerancePx float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = policy
	s.tolerance = tolerancePx
	s.logger.Info("snap policy updated", zap.Float64("tolerance_px", tolerancePx))
}

// State returns a copy of the current placement state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hover runs selection for a pointer-move frame and updates the preview snap
func (s *Session) Hover(candidates []snap.Candidate, requested snap.Kind) (snap.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(candidates, requested)
}

// Click runs selection for a click frame and captures the chosen reference.
// The second capture completes the dimension, which is returned, and resets the state.
func (s *Session) Click(candidates []snap.Candidate, requested snap.Kind) (*Dimension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chosen, ok := s.selectLocked(candidates, requested)
	if !ok {
		return nil, ErrNoSnap
	}

	if !s.state.IsPlacing() {
		s.state.SetFirst(chosen)
		s.logger.Info("first reference captured", zap.Stringer("reference", chosen))
		return nil, nil
	}

	first := *s.state.FirstReference
	if snap.SameReference(first, chosen, s.policy.SameReferenceTolerance) {
		return nil, ErrDegenerateDimension
	}

	s.state.SetSecond(chosen)
	dim := &Dimension{First: first, Second: chosen}
	s.logger.Info("dimension placed",
		zap.Stringer("first", dim.First),
		zap.Stringer("second", dim.Second),
		zap.Float64("length", dim.Length()))
	s.state.Reset()
	return dim, nil
}

// Cancel aborts the interaction
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsPlacing() {
		s.logger.Info("placement cancelled")
	}
	s.state.Reset()
}

func (s *Session) selectLocked(candidates []snap.Candidate, requested snap.Kind) (snap.Candidate, bool) {
	ctx := snap.Context{
		SnapTolerancePx: s.tolerance,
		RequestedKind:   requested,
		LastPreviewSnap: s.state.LastPreviewSnap,
	}

	chosen, ok := s.policy.SelectBest(candidates, ctx)
	prev := s.state.LastPreviewSnap
	if !ok {
		if prev != nil {
			s.logger.Debug("snap lost", zap.Stringer("previous", *prev))
		}
		s.state.UpdatePreview(nil)
		return snap.Candidate{}, false
	}

	if prev == nil || !snap.SameReference(*prev, chosen, s.policy.SameReferenceTolerance) {
		s.logger.Debug("snap target changed",
			zap.Stringer("target", chosen),
			zap.Float64("score", chosen.Score),
			zap.Int("candidates", len(candidates)))
	}
	s.state.UpdatePreview(&chosen)
	return chosen, true
}

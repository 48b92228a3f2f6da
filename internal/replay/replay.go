// Package replay feeds recorded frames through a placement session and
// reports what was snapped and placed.
package replay

import (
	"errors"
	"fmt"
	"io"

	"github.com/philipparndt/dimsnap/internal/frames"
	"github.com/philipparndt/dimsnap/internal/placement"
	"github.com/philipparndt/dimsnap/pkg/snap"
)

// Step is the outcome of one frame
type Step struct {
	Index     int
	Event     frames.Event
	Snap      *snap.Candidate
	Dimension *placement.Dimension
	Err       error
}

// Run replays every frame of rec through session in order
func Run(rec *frames.Recording, session *placement.Session) []Step {
	steps := make([]Step, 0, len(rec.Frames))
	for i, f := range rec.Frames {
		step := Step{Index: i, Event: f.Event}

		switch f.Event {
		case frames.EventCancel:
			session.Cancel()
		case frames.EventClick:
			// Clicks capture whatever the preview selection yields for this frame
			dim, err := session.Click(f.Candidates, f.RequestedKind)
			step.Dimension = dim
			step.Err = err
			if err == nil {
				if st := session.State(); st.FirstReference != nil {
					c := *st.FirstReference
					step.Snap = &c
				} else if dim != nil {
					c := dim.Second
					step.Snap = &c
				}
			}
		default:
			if c, ok := session.Hover(f.Candidates, f.RequestedKind); ok {
				step.Snap = &c
			}
		}
		steps = append(steps, step)
	}
	return steps
}

// Dimensions returns the dimensions completed during a replay
func Dimensions(steps []Step) []placement.Dimension {
	var dims []placement.Dimension
	for _, s := range steps {
		if s.Dimension != nil {
			dims = append(dims, *s.Dimension)
		}
	}
	return dims
}

// Inspect replays the frames before index n exactly as Run does and returns
// frame n ranked in the resulting context, together with the final selection.
func Inspect(rec *frames.Recording, policy snap.Policy, tolerancePx float64, n int) ([]snap.Candidate, *snap.Candidate, error) {
	if n < 0 || n >= len(rec.Frames) {
		return nil, nil, fmt.Errorf("frame %d out of range (recording has %d frames)", n, len(rec.Frames))
	}

	session := placement.NewSession(policy, tolerancePx, nil)
	Run(&frames.Recording{Frames: rec.Frames[:n]}, session)

	f := rec.Frames[n]
	ctx := snap.Context{
		SnapTolerancePx: tolerancePx,
		RequestedKind:   f.RequestedKind,
		LastPreviewSnap: session.State().LastPreviewSnap,
	}
	ranked := policy.Rank(f.Candidates, ctx)
	if best, ok := policy.SelectBest(f.Candidates, ctx); ok {
		return ranked, &best, nil
	}
	return ranked, nil, nil
}

// Print writes a frame-by-frame report
func Print(w io.Writer, name string, steps []Step) {
	title := "Snap Replay"
	if name != "" {
		title = fmt.Sprintf("Snap Replay: %s", name)
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "====================")

	fmt.Fprintf(w, "%-6s %-7s %-45s %-10s\n", "Frame", "Event", "Snap", "Score")
	for _, s := range steps {
		target := "-"
		score := ""
		if s.Snap != nil {
			target = s.Snap.String()
			score = fmt.Sprintf("%.2f", s.Snap.Score)
		}
		switch {
		case errors.Is(s.Err, placement.ErrNoSnap):
			target = "(no snap)"
		case s.Err != nil:
			target = fmt.Sprintf("(%v)", s.Err)
		}
		fmt.Fprintf(w, "%-6d %-7s %-45s %-10s\n", s.Index, s.Event, target, score)
	}

	dims := Dimensions(steps)
	fmt.Fprintf(w, "\nDimensions placed: %d\n", len(dims))
	for i, d := range dims {
		delta := d.Delta()
		fmt.Fprintf(w, "  %d. %s -> %s  length %.6f  (dx %.6f, dy %.6f, dz %.6f)\n",
			i+1, d.First, d.Second, d.Length(), delta.X, delta.Y, delta.Z)
	}
}

// PrintRanking writes the ranked candidate list of one frame
func PrintRanking(w io.Writer, n int, ranked []snap.Candidate, chosen *snap.Candidate, refTolerance float64) {
	fmt.Fprintf(w, "Frame %d ranking\n", n)
	fmt.Fprintln(w, "====================")
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No eligible candidates.")
		return
	}

	fmt.Fprintf(w, "%-3s %-6s %-45s %-10s %-10s\n", "", "Rank", "Candidate", "Distance", "Score")
	for i, c := range ranked {
		marker := ""
		if chosen != nil && snap.SameReference(c, *chosen, refTolerance) {
			marker = "*"
		}
		fmt.Fprintf(w, "%-3s %-6d %-45s %-10.2f %-10.2f\n", marker, i+1, c.String(), c.ScreenDistancePx, c.Score)
	}
}

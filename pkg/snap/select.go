package snap

import "sort"

// SelectBest picks the best snap target using the default policy
func SelectBest(candidates []Candidate, ctx Context) (Candidate, bool) {
	return DefaultPolicy().SelectBest(candidates, ctx)
}

// Score computes a candidate's score for the given context
func (p Policy) Score(c Candidate, ctx Context) float64 {
	score := p.PriorityWeight(c.Kind) - c.ScreenDistancePx*p.DistanceWeight
	if c.HasStableReference {
		score += p.StableReferenceBonus
	}
	if c.IsVisibleInView {
		score += p.VisibleBonus
	}
	if ctx.LastPreviewSnap != nil && SameReference(c, *ctx.LastPreviewSnap, p.SameReferenceTolerance) {
		score += p.StickinessBonus
	}
	return score
}

// Rank filters the candidates down to the eligible set and returns scored
// copies ordered by score, highest first. Equal scores keep input order.
// The input slice is not modified.
func (p Policy) Rank(candidates []Candidate, ctx Context) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.IsVisibleInView && c.IsValidForDimension && c.ScreenDistancePx <= ctx.SnapTolerancePx {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	// The requested kind narrows the set only if something of that kind is eligible
	if ctx.RequestedKind != KindNone {
		var ofKind []Candidate
		for _, c := range eligible {
			if c.Kind == ctx.RequestedKind {
				ofKind = append(ofKind, c)
			}
		}
		if len(ofKind) > 0 {
			eligible = ofKind
		}
	}

	for i, c := range eligible {
		eligible[i] = c.WithScore(p.Score(c, ctx))
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})
	return eligible
}

// SelectBest returns the candidate to snap to, or false when nothing is eligible.
// When the previous preview is still eligible it is kept unless the top
// candidate beats it by at least SwitchThreshold.
func (p Policy) SelectBest(candidates []Candidate, ctx Context) (Candidate, bool) {
	ranked := p.Rank(candidates, ctx)
	if len(ranked) == 0 {
		return Candidate{}, false
	}

	best := ranked[0]
	if ctx.LastPreviewSnap == nil {
		return best, true
	}

	for _, c := range ranked {
		if !SameReference(c, *ctx.LastPreviewSnap, p.SameReferenceTolerance) {
			continue
		}
		if best.Score-c.Score < p.SwitchThreshold {
			return c, true
		}
		break
	}
	return best, true
}

package snap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/philipparndt/dimsnap/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// candidateAt builds a visible, valid candidate without a stable reference
func candidateAt(kind Kind, x, distancePx float64) Candidate {
	return Candidate{
		Kind:                kind,
		WorldPoint:          geometry.NewVector3(x, 0, 0),
		ScreenDistancePx:    distancePx,
		IsVisibleInView:     true,
		IsValidForDimension: true,
	}
}

func contextAfter(prev Candidate) Context {
	ctx := NewContext()
	ctx.LastPreviewSnap = &prev
	return ctx
}

func TestSelectBest_PointBeatsCloserFace(t *testing.T) {
	point := candidateAt(KindPoint, 0, 4)
	face := candidateAt(KindFace, 1, 2)

	got, ok := SelectBest([]Candidate{face, point}, NewContext())
	require.True(t, ok)
	assert.Equal(t, KindPoint, got.Kind)
	assert.InDelta(t, 128.0, got.Score, 1e-9) // 120 - 12 + 20
}

func TestSelectBest_PriorityOrder(t *testing.T) {
	order := []Kind{KindPoint, KindIntersection, KindCenter, KindEdge, KindFace, KindNone}

	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			higher, lower := order[i], order[j]
			t.Run(fmt.Sprintf("%s over %s", higher, lower), func(t *testing.T) {
				// Lower-priority candidate listed first so input order cannot decide
				candidates := []Candidate{
					candidateAt(lower, 1, 3),
					candidateAt(higher, 2, 3),
				}
				got, ok := SelectBest(candidates, NewContext())
				require.True(t, ok)
				assert.Equal(t, higher, got.Kind)
			})
		}
	}
}

func TestSelectBest_RequestedKind(t *testing.T) {
	point := candidateAt(KindPoint, 0, 1)
	edge := candidateAt(KindEdge, 1, 5)

	tests := []struct {
		name      string
		requested Kind
		want      Kind
	}{
		{name: "narrows to requested kind", requested: KindEdge, want: KindEdge},
		{name: "falls back when requested kind is absent", requested: KindCenter, want: KindPoint},
		{name: "no filter", requested: KindNone, want: KindPoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			ctx.RequestedKind = tt.requested

			got, ok := SelectBest([]Candidate{point, edge}, ctx)
			require.True(t, ok, "requested kind must never empty a non-empty eligible set")
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestSelectBest_RequestedKindIgnoresIneligibleMatches(t *testing.T) {
	point := candidateAt(KindPoint, 0, 1)
	farEdge := candidateAt(KindEdge, 1, 20)

	ctx := NewContext()
	ctx.RequestedKind = KindEdge

	got, ok := SelectBest([]Candidate{point, farEdge}, ctx)
	require.True(t, ok)
	assert.Equal(t, KindPoint, got.Kind)
}

func TestSelectBest_ToleranceIsInclusive(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     bool
	}{
		{name: "inside", distance: 11, want: true},
		{name: "exactly at tolerance", distance: 12, want: true},
		{name: "one pixel beyond", distance: 13, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SelectBest([]Candidate{candidateAt(KindPoint, 0, tt.distance)}, NewContext())
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestSelectBest_CustomTolerance(t *testing.T) {
	ctx := NewContext()
	ctx.SnapTolerancePx = 4

	_, ok := SelectBest([]Candidate{candidateAt(KindPoint, 0, 5)}, ctx)
	assert.False(t, ok)
}

func TestSelectBest_HysteresisKeepsPreviousSnap(t *testing.T) {
	a := candidateAt(KindPoint, 0, 5.2)
	b := candidateAt(KindPoint, 0.1, 5.0)

	got, ok := SelectBest([]Candidate{b, a}, contextAfter(a))
	require.True(t, ok)
	assert.True(t, SameReference(got, a, 1e-4), "expected previous snap A, got %v", got)
}

func TestSelectBest_SwitchThresholdAloneKeepsPreviousSnap(t *testing.T) {
	policy := DefaultPolicy()
	policy.StickinessBonus = 0

	a := candidateAt(KindPoint, 0, 5.2)
	b := candidateAt(KindPoint, 0.1, 5.0)

	// B outranks A by 0.6, which is below the switch threshold
	ranked := policy.Rank([]Candidate{a, b}, contextAfter(a))
	require.Len(t, ranked, 2)
	assert.True(t, SameReference(ranked[0], b, 1e-4))

	got, ok := policy.SelectBest([]Candidate{a, b}, contextAfter(a))
	require.True(t, ok)
	assert.True(t, SameReference(got, a, 1e-4))
}

func TestSelectBest_HysteresisOverride(t *testing.T) {
	a := candidateAt(KindPoint, 0, 10)
	b := candidateAt(KindPoint, 1, 0)

	// A: 120 - 30 + 20 + 15 = 125, B: 120 + 20 = 140
	got, ok := SelectBest([]Candidate{a, b}, contextAfter(a))
	require.True(t, ok)
	assert.True(t, SameReference(got, b, 1e-4))
	assert.InDelta(t, 140.0, got.Score, 1e-9)
}

func TestSelectBest_SwitchThresholdBoundary(t *testing.T) {
	policy := DefaultPolicy()
	policy.StickinessBonus = 0
	policy.DistanceWeight = 1

	tests := []struct {
		name      string
		prevDist  float64
		switchesB bool
	}{
		{name: "margin equal to threshold switches", prevDist: 9, switchesB: true},
		{name: "margin below threshold sticks", prevDist: 8.5, switchesB: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := candidateAt(KindPoint, 0, tt.prevDist)
			b := candidateAt(KindPoint, 1, 1)

			got, ok := policy.SelectBest([]Candidate{a, b}, contextAfter(a))
			require.True(t, ok)
			want := a
			if tt.switchesB {
				want = b
			}
			assert.True(t, SameReference(got, want, 1e-4), "got %v", got)
		})
	}
}

func TestSelectBest_PreviousSnapGone(t *testing.T) {
	prev := candidateAt(KindPoint, 5, 1)
	current := candidateAt(KindEdge, 0, 6)

	got, ok := SelectBest([]Candidate{current}, contextAfter(prev))
	require.True(t, ok)
	assert.Equal(t, KindEdge, got.Kind)
}

func TestSelectBest_PreviousSnapNoLongerEligible(t *testing.T) {
	prev := candidateAt(KindPoint, 0, 1)
	hidden := prev
	hidden.IsVisibleInView = false
	other := candidateAt(KindFace, 3, 6)

	got, ok := SelectBest([]Candidate{hidden, other}, contextAfter(prev))
	require.True(t, ok)
	assert.Equal(t, KindFace, got.Kind)
}

func TestSelectBest_NeverReturnsHiddenOrInvalid(t *testing.T) {
	hidden := candidateAt(KindPoint, 0, 0)
	hidden.IsVisibleInView = false
	hidden.HasStableReference = true

	invalid := candidateAt(KindIntersection, 1, 0)
	invalid.IsValidForDimension = false
	invalid.HasStableReference = true

	face := candidateAt(KindFace, 2, 11)

	got, ok := SelectBest([]Candidate{hidden, invalid, face}, contextAfter(hidden))
	require.True(t, ok)
	assert.Equal(t, KindFace, got.Kind)

	_, ok = SelectBest([]Candidate{hidden, invalid}, NewContext())
	assert.False(t, ok)
}

func TestSelectBest_Empty(t *testing.T) {
	_, ok := SelectBest(nil, NewContext())
	assert.False(t, ok)

	_, ok = SelectBest([]Candidate{}, contextAfter(candidateAt(KindPoint, 0, 0)))
	assert.False(t, ok)

	far := candidateAt(KindPoint, 0, 40)
	_, ok = SelectBest([]Candidate{far}, NewContext())
	assert.False(t, ok)
}

func TestSelectBest_StableReferenceBonus(t *testing.T) {
	transient := candidateAt(KindPoint, 0, 2)
	stable := candidateAt(KindEdge, 1, 2)
	stable.HasStableReference = true

	// Edge: 100 - 6 + 30 + 20 = 144, Point: 120 - 6 + 20 = 134
	got, ok := SelectBest([]Candidate{transient, stable}, NewContext())
	require.True(t, ok)
	assert.Equal(t, KindEdge, got.Kind)
}

func TestSelectBest_TiesKeepInputOrder(t *testing.T) {
	first := candidateAt(KindCenter, 0, 3)
	second := candidateAt(KindCenter, 7, 3)

	got, ok := SelectBest([]Candidate{first, second}, NewContext())
	require.True(t, ok)
	assert.Equal(t, first.WorldPoint, got.WorldPoint)

	got, ok = SelectBest([]Candidate{second, first}, NewContext())
	require.True(t, ok)
	assert.Equal(t, second.WorldPoint, got.WorldPoint)
}

func TestSelectBest_Deterministic(t *testing.T) {
	prev := candidateAt(KindEdge, 2, 4)
	candidates := []Candidate{
		candidateAt(KindFace, 0, 1),
		candidateAt(KindEdge, 2, 4),
		candidateAt(KindCenter, 3, 6),
		candidateAt(KindPoint, 4, 9),
	}
	ctx := contextAfter(prev)

	first, ok1 := SelectBest(candidates, ctx)
	second, ok2 := SelectBest(candidates, ctx)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, SameReference(first, second, 1e-4))
	assert.Equal(t, first, second)
}

func TestSelectBest_DoesNotModifyInput(t *testing.T) {
	candidates := []Candidate{
		candidateAt(KindFace, 0, 1),
		candidateAt(KindPoint, 1, 2),
	}
	before := append([]Candidate(nil), candidates...)

	_, ok := SelectBest(candidates, NewContext())
	require.True(t, ok)
	assert.Equal(t, before, candidates)
}

func TestSelectBest_ConcurrentCallers(t *testing.T) {
	candidates := []Candidate{
		candidateAt(KindFace, 0, 1),
		candidateAt(KindPoint, 1, 2),
		candidateAt(KindEdge, 2, 3),
	}
	want, ok := SelectBest(candidates, NewContext())
	require.True(t, ok)

	var wg sync.WaitGroup
	results := make([]Candidate, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = SelectBest(candidates, NewContext())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestRank_ScoresAndOrder(t *testing.T) {
	candidates := []Candidate{
		candidateAt(KindFace, 0, 0),         // 95 + 20 = 115
		candidateAt(KindIntersection, 1, 2), // 115 - 6 + 20 = 129
		candidateAt(KindEdge, 2, 1),         // 100 - 3 + 20 = 117
	}

	ranked := DefaultPolicy().Rank(candidates, NewContext())
	require.Len(t, ranked, 3)

	assert.Equal(t, []Kind{KindIntersection, KindEdge, KindFace},
		[]Kind{ranked[0].Kind, ranked[1].Kind, ranked[2].Kind})
	assert.InDelta(t, 129.0, ranked[0].Score, 1e-9)
	assert.InDelta(t, 117.0, ranked[1].Score, 1e-9)
	assert.InDelta(t, 115.0, ranked[2].Score, 1e-9)
}

func TestRank_StickinessBoostsPreviousSnap(t *testing.T) {
	prev := candidateAt(KindCenter, 0, 2)
	ranked := DefaultPolicy().Rank([]Candidate{candidateAt(KindCenter, 0, 2)}, contextAfter(prev))
	require.Len(t, ranked, 1)
	assert.InDelta(t, 110.0-6+20+15, ranked[0].Score, 1e-9)
}

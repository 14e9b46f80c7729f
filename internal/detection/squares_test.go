package detection

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/square-hough/internal/hough"
)

// newLayer builds a layer from rows of counts.
func newLayer(rows ...[]uint64) *hough.Layer {
	l := &hough.Layer{Height: len(rows)}
	if len(rows) > 0 {
		l.Width = len(rows[0])
	}
	for _, r := range rows {
		l.Counts = append(l.Counts, r...)
	}
	return l
}

func TestSquareBounds(t *testing.T) {
	assert.Equal(t, Bounds{X1: 8, Y1: 8, X2: 13, Y2: 13}, SquareBounds(10, 10, 5))
	assert.Equal(t, Bounds{X1: 10, Y1: 10, X2: 90, Y2: 90}, SquareBounds(50, 50, 80))
	assert.Equal(t, Bounds{X1: -2, Y1: 1, X2: 2, Y2: 5}, SquareBounds(0, 3, 4))
}

func TestScoreRange(t *testing.T) {
	tests := []struct {
		r     ScoreRange
		votes uint64
		want  bool
	}{
		{ScoreRange{Min: 90}, 89, false},
		{ScoreRange{Min: 90}, 90, true},
		{ScoreRange{Min: 90}, 100000, true},
		{ScoreRange{Min: 90, Max: 160}, 160, true},
		{ScoreRange{Min: 90, Max: 160}, 161, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.r.Contains(tt.votes), "%+v contains %d", tt.r, tt.votes)
	}

	assert.NoError(t, ScoreRange{Min: 5}.Validate())
	assert.NoError(t, ScoreRange{Min: 5, Max: 5}.Validate())
	assert.Error(t, ScoreRange{Min: 5, Max: 4}.Validate())
}

func TestFindSquares_RowMajorOrder(t *testing.T) {
	layer := newLayer(
		[]uint64{0, 9, 0},
		[]uint64{7, 0, 8},
		[]uint64{0, 2, 9},
	)

	got := FindSquares(layer, 2, ScoreRange{Min: 7}, 0)
	want := []Square{
		{Center: Point{1, 0}, EdgeLength: 2, Votes: 9, Bounds: Bounds{0, -1, 2, 1}},
		{Center: Point{0, 1}, EdgeLength: 2, Votes: 7, Bounds: Bounds{-1, 0, 1, 2}},
		{Center: Point{2, 1}, EdgeLength: 2, Votes: 8, Bounds: Bounds{1, 0, 3, 2}},
		{Center: Point{2, 2}, EdgeLength: 2, Votes: 9, Bounds: Bounds{1, 1, 3, 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindSquares mismatch (-want +got):\n%s", diff)
	}
}

func TestFindSquares_LimitAndMax(t *testing.T) {
	layer := newLayer(
		[]uint64{5, 6, 7},
		[]uint64{8, 9, 10},
	)

	got := FindSquares(layer, 4, ScoreRange{Min: 5}, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, uint64(5), got[0].Votes)
	assert.Equal(t, uint64(6), got[1].Votes)

	got = FindSquares(layer, 4, ScoreRange{Min: 6, Max: 8}, 0)
	votes := make([]uint64, len(got))
	for i, s := range got {
		votes[i] = s.Votes
	}
	assert.Equal(t, []uint64{6, 7, 8}, votes)
}

func TestFindSquares_Empty(t *testing.T) {
	assert.Empty(t, FindSquares(nil, 80, ScoreRange{}, 10))
	assert.Empty(t, FindSquares(&hough.Layer{}, 80, ScoreRange{}, 10))

	// Cells without votes never qualify.
	layer := newLayer([]uint64{0, 0}, []uint64{0, 1})
	got := FindSquares(layer, 3, ScoreRange{}, 0)
	assert.Len(t, got, 1)
	assert.Equal(t, Point{1, 1}, got[0].Center)
}

func TestStats(t *testing.T) {
	layer := newLayer(
		[]uint64{0, 4},
		[]uint64{2, 2},
	)

	s := Stats(layer, 80)
	assert.Equal(t, 80, s.EdgeLength)
	assert.Equal(t, uint64(4), s.MaxVotes)
	assert.Equal(t, Point{X: 1, Y: 0}, s.MaxAt)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt2, s.StdDev, 1e-12)
	assert.Equal(t, 3, s.NonZero)
}

func TestStats_EmptyAndUniform(t *testing.T) {
	assert.Equal(t, LayerStats{EdgeLength: 5}, Stats(nil, 5))
	assert.Equal(t, LayerStats{EdgeLength: 5}, Stats(&hough.Layer{}, 5))

	s := Stats(newLayer([]uint64{3}), 1)
	assert.Equal(t, uint64(3), s.MaxVotes)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
}

func TestSquare_Label(t *testing.T) {
	assert.Equal(t, "Score: 92", Square{Votes: 92}.Label())
}

func TestHottest(t *testing.T) {
	layers := []LayerStats{
		{EdgeLength: 10, MaxVotes: 3},
		{EdgeLength: 11, MaxVotes: 7},
		{EdgeLength: 12, MaxVotes: 7},
	}
	best, ok := Hottest(layers)
	assert.True(t, ok)
	assert.Equal(t, 11, best.EdgeLength)

	_, ok = Hottest(nil)
	assert.False(t, ok)
}

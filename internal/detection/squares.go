package detection

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/square-hough/internal/hough"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//
// A square's bounds are the box it voted for, so they may extend past the
// frame when the square was clipped.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Square is a candidate square center that passed the score threshold.
type Square struct {
	// Center is the accumulator cell, which is the square's center pixel.
	Center Point `json:"center"`

	// EdgeLength is the edge length of the layer the square was found in.
	EdgeLength int `json:"edge_length"`

	// Votes is the accumulator value at Center.
	Votes uint64 `json:"votes"`

	// Bounds is the square's outline in frame coordinates.
	Bounds Bounds `json:"bounds"`
}

// Label is the text drawn beside an annotated square.
func (s Square) Label() string {
	return fmt.Sprintf("Score: %d", s.Votes)
}

// SquareBounds returns the outline of the square of the given edge length
// centered at (x, y), using the same geometry the accumulator votes with.
func SquareBounds(x, y, edgeLength int) Bounds {
	top := y - edgeLength/2
	left := x - edgeLength/2
	return Bounds{X1: left, Y1: top, X2: left + edgeLength, Y2: top + edgeLength}
}

// ScoreRange selects accumulator cells by vote count. Both ends are
// inclusive; a Max of 0 leaves the range unbounded above.
type ScoreRange struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max,omitempty"`
}

// Contains reports whether votes falls inside the range.
func (r ScoreRange) Contains(votes uint64) bool {
	return votes >= r.Min && (r.Max == 0 || votes <= r.Max)
}

// Validate reports an inverted range.
func (r ScoreRange) Validate() error {
	if r.Max != 0 && r.Max < r.Min {
		return fmt.Errorf("score range max %d is below min %d", r.Max, r.Min)
	}
	return nil
}

// FindSquares thresholds one accumulator layer. Cells are scanned in
// row-major order (top row first, left to right) and every cell whose votes
// fall in r becomes a Square. Scanning stops after limit squares; a limit of
// 0 or less returns them all.
//
// A zero-vote cell never qualifies, even when r.Min is 0.
func FindSquares(layer *hough.Layer, edgeLength int, r ScoreRange, limit int) []Square {
	squares := make([]Square, 0)
	if layer == nil || layer.Width == 0 {
		return squares
	}

	for i, votes := range layer.Counts {
		if votes == 0 || !r.Contains(votes) {
			continue
		}
		x, y := i%layer.Width, i/layer.Width
		squares = append(squares, Square{
			Center:     Point{X: x, Y: y},
			EdgeLength: edgeLength,
			Votes:      votes,
			Bounds:     SquareBounds(x, y, edgeLength),
		})
		if limit > 0 && len(squares) == limit {
			break
		}
	}
	return squares
}

// LayerStats summarises the votes in one accumulator layer.
type LayerStats struct {
	EdgeLength int     `json:"edge_length"`
	MaxVotes   uint64  `json:"max_votes"`
	MaxAt      Point   `json:"max_at"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	NonZero    int     `json:"non_zero"`
}

// Stats computes LayerStats. Mean and StdDev are population statistics
// over every cell, including empty ones.
func Stats(layer *hough.Layer, edgeLength int) LayerStats {
	s := LayerStats{EdgeLength: edgeLength}
	if layer == nil || len(layer.Counts) == 0 {
		return s
	}

	votes, x, y := layer.Max()
	s.MaxVotes = votes
	s.MaxAt = Point{X: x, Y: y}

	values := make([]float64, len(layer.Counts))
	for i, c := range layer.Counts {
		values[i] = float64(c)
	}
	s.Mean, s.StdDev = stat.PopMeanStdDev(values, nil)
	s.NonZero = floats.Count(func(v float64) bool { return v != 0 }, values)
	return s
}

// Hottest returns the layer holding the highest vote, preferring the shortest
// edge length on ties. It reports false when layers is empty.
func Hottest(layers []LayerStats) (LayerStats, bool) {
	if len(layers) == 0 {
		return LayerStats{}, false
	}
	best := layers[0]
	for _, l := range layers[1:] {
		if l.MaxVotes > best.MaxVotes {
			best = l
		}
	}
	return best, true
}

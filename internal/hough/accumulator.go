package hough

import (
	"fmt"
	"math"
)

// Layer is a Height × Width grid of vote counters for one candidate edge
// length, stored row-major.
type Layer struct {
	Width  int
	Height int
	Counts []uint64
}

// At returns the votes at (x, y). Coordinates must lie inside the layer.
func (l *Layer) At(x, y int) uint64 {
	return l.Counts[y*l.Width+x]
}

// Max returns the highest vote count in the layer and its position.
// Ties resolve to the first position in row-major order.
func (l *Layer) Max() (votes uint64, x, y int) {
	best := -1
	for i, c := range l.Counts {
		if best < 0 || c > votes {
			votes, best = c, i
		}
	}
	if best < 0 || l.Width == 0 {
		return 0, 0, 0
	}
	return votes, best % l.Width, best / l.Width
}

// Stack holds one Layer per candidate edge length. Layers[i] collects votes
// for squares of edge length MinLength+i.
type Stack struct {
	MinLength int
	Width     int
	Height    int
	Layers    []Layer
}

// maxStackCells is the most counters one Stack may hold: the runtime cannot
// allocate more than 2^48 bytes in one slice on 64-bit platforms.
const maxStackCells = min(1<<45, math.MaxInt/8)

// checkStackSize returns an ErrOverflow when a stack for r over a
// width × height image would exceed maxStackCells.
func checkStackSize(r SizeRange, width, height int) error {
	if width == 0 || height == 0 {
		return nil
	}
	if height > maxStackCells/width {
		return fmt.Errorf("%w: image of %d x %d pixels exceeds %d cells", ErrOverflow, width, height, maxStackCells)
	}
	cells := width * height
	if span := r.Span(); span > maxStackCells/cells {
		return fmt.Errorf("%w: %d edge lengths x %d cells exceeds %d cells", ErrOverflow, span, cells, maxStackCells)
	}
	return nil
}

// newStack allocates a zeroed stack for every length in r. All layers share
// one backing array.
func newStack(r SizeRange, width, height int) *Stack {
	span := r.Span()
	cells := width * height
	backing := make([]uint64, span*cells)

	s := &Stack{
		MinLength: r.Min,
		Width:     width,
		Height:    height,
		Layers:    make([]Layer, span),
	}
	for i := range s.Layers {
		s.Layers[i] = Layer{
			Width:  width,
			Height: height,
			Counts: backing[i*cells : (i+1)*cells : (i+1)*cells],
		}
	}
	return s
}

// Len is the number of layers.
func (s *Stack) Len() int {
	return len(s.Layers)
}

// EdgeLength returns the edge length voted into layer i.
func (s *Stack) EdgeLength(i int) int {
	return s.MinLength + i
}

// Layer returns the layer for the given edge length.
func (s *Stack) Layer(edgeLength int) (*Layer, bool) {
	i := edgeLength - s.MinLength
	if i < 0 || i >= len(s.Layers) {
		return nil, false
	}
	return &s.Layers[i], true
}

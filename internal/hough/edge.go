package hough

import "image"

// EdgeImage is a binary edge map. A nonzero pixel is an edge; zero is
// background. Pix is row-major with no padding.
type EdgeImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewEdgeImage returns an empty edge image of the given size.
func NewEdgeImage(width, height int) *EdgeImage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &EdgeImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// EdgeImageFromGray copies a grayscale edge map. Pixel (0, 0) of the result
// is the top-left pixel of g.Rect.
func EdgeImageFromGray(g *image.Gray) *EdgeImage {
	b := g.Bounds()
	e := NewEdgeImage(b.Dx(), b.Dy())
	for y := 0; y < e.Height; y++ {
		off := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(e.Pix[y*e.Width:(y+1)*e.Width], g.Pix[off:off+e.Width])
	}
	return e
}

// Set marks (x, y) with v. Out-of-range coordinates are ignored.
func (e *EdgeImage) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return
	}
	e.Pix[y*e.Width+x] = v
}

// IsEdge reports whether (x, y) is an edge pixel. Out-of-range coordinates
// are background.
func (e *EdgeImage) IsEdge(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Pix[y*e.Width+x] != 0
}

// EdgeCount returns the number of edge pixels.
func (e *EdgeImage) EdgeCount() int {
	n := 0
	for _, v := range e.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

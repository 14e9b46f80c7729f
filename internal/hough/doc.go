// Package hough detects axis-aligned squares of unknown size in a binary edge
// image with a Hough-style voting scheme.
//
// Every edge pixel casts votes for the perimeters of all candidate squares
// centered on it. Votes are accumulated in a Stack holding one Layer per
// candidate edge length; locations that gather enough votes in a layer are
// square detections of that size. Thresholding and display are left to the
// caller (see the detection package).
//
// # Strategies
//
// Two strategies drive the same perimeter voter:
//
//   - Exhaustive visits every edge pixel and every candidate size. It is
//     deterministic and produces the complete accumulator, at a cost of
//     O(edgePixels × sizes).
//   - Adaptive runs a fixed budget of randomized probes that start broad from
//     the image center and cool toward the most recent edge-pixel hit. It
//     approximates Exhaustive in bounded time and is meant for per-frame use.
//
// # Geometry
//
// A square of edge length L centered at (x, y) spans
//
//	top    = y - L/2    left  = x - L/2
//	bottom = top + L    right = left + L
//
// with bottom and right exclusive. For odd L the center sits at the truncated
// half-length offset. Sides that fall outside the image are skipped, the rest
// are clipped, and each corner is counted once.
//
// # Errors
//
// Size parameters are checked before anything is allocated. Failures wrap
// ErrType, ErrRange or ErrOverflow; no partial Stack is returned with an
// error. Once voting starts nothing can fail.
//
// The package performs no I/O and no logging, and keeps no state between
// calls. A Stack is freshly allocated by every invocation.
package hough

// Package detection turns frames into square detections.
//
// It sits between the imaging package, which produces edge maps, and the
// hough package, which fills accumulators from them. Run executes the whole
// per-frame pipeline; FindSquares and Stats are the thresholding and summary
// steps on their own, for callers that fill accumulators themselves.
//
// # Pipeline
//
//  1. Crop: optionally restrict the frame to a region of interest
//  2. Preprocess: blur, grayscale and Canny into a binary edge map
//  3. Vote: fill one accumulator layer per candidate edge length, either
//     exhaustively or with the seeded adaptive sampler
//  4. Threshold: report every cell whose votes fall in the score range
//
// # Scores
//
// A square's score is its accumulator value: the number of edge pixels on
// the outline of the square centered there. A perfect outline of edge length
// L scores 4(L-1) when all four sides vote.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner of the (cropped) frame
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Performance Considerations
//
// Exhaustive voting costs O(edge pixels × edge lengths × L). For live frames
// prefer the adaptive strategy, crop to the region of interest first, and
// keep the edge length range narrow.
package detection

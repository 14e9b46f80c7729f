// Package imaging turns camera frames into the binary edge maps the square
// detector votes over, and draws its results back onto frames.
//
// It covers frame loading (with a concurrent-safe cache), region-of-interest
// cropping, edge extraction, box and label annotation, and heatmap rendering of
// accumulator layers. All operations work with standard Go image.Image types
// and use a coordinate system where (0,0) is at the top-left corner, X
// increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max exclusive (bottom-right)
//
// Images returned by this package always have bounds starting at (0,0), so
// coordinates found on a processed frame can be used on the output directly.
//
// # Edge Maps
//
// Preprocess produces an *image.Gray whose pixels are either 0 (background)
// or 255 (edge). Binarize converts edge maps made by other tools into the
// same form.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Performance Considerations
//
// For repeated operations on the same frame, use ImageCache to avoid redundant
// disk reads. Long-running processes should call Evict() or Clear() once a
// frame is done.
package imaging

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropRect extracts a region of interest from a frame.
//
// The region uses image coordinates: Min is inclusive, Max exclusive. It must
// be non-empty and lie inside the frame. The result has bounds starting at
// (0, 0).
func CropRect(img image.Image, region image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()

	if !region.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}
	if region.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: x1 must be < x2, y1 must be < y2", region)
	}

	return imaging.Crop(img, region), nil
}

// EncodePNGBase64 encodes img as PNG and returns it base64-encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

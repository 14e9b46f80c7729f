package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Default preprocessing parameters, matching the capture loop the detector
// was tuned with.
const (
	DefaultBlurRadius    = 3.0
	DefaultThresholdLow  = 20
	DefaultThresholdHigh = 23

	// EdgeMapLevel is the gray level at or above which a pixel of a supplied
	// edge map counts as an edge.
	EdgeMapLevel = 128
)

// PreprocessOptions configures edge extraction.
type PreprocessOptions struct {
	// BlurRadius is the Gaussian blur radius in pixels. Zero disables blur.
	BlurRadius float64

	// ThresholdLow and ThresholdHigh are the Canny hysteresis thresholds on
	// the 0-255 gradient scale. If ThresholdLow > ThresholdHigh they are
	// swapped, as OpenCV does.
	ThresholdLow  int
	ThresholdHigh int

	// EdgeMap marks the input as an edge map made by another tool. It is
	// binarized at EdgeMapLevel instead of blurred and run through Canny.
	EdgeMap bool
}

// DefaultPreprocessOptions returns the options the detector is tuned for.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		BlurRadius:    DefaultBlurRadius,
		ThresholdLow:  DefaultThresholdLow,
		ThresholdHigh: DefaultThresholdHigh,
	}
}

// Preprocess turns a camera frame into a binary edge map: white (255) pixels
// are edges, black pixels are background. The result has bounds starting at
// (0, 0).
//
// # Algorithm
//
//  1. Gaussian blur (bild/blur) to suppress sensor noise
//  2. Grayscale conversion (bild/effect)
//  3. Canny: Sobel gradients, non-maximum suppression along the gradient
//     direction, then hysteresis. Pixels above ThresholdHigh seed edges, and
//     pixels above ThresholdLow join an edge when 8-connected to a seed.
//
// With opts.EdgeMap set the frame is only binarized.
func Preprocess(img image.Image, opts PreprocessOptions) *image.Gray {
	if opts.EdgeMap {
		return Binarize(img, EdgeMapLevel)
	}
	src := img
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}
	return canny(effect.Grayscale(src), opts.ThresholdLow, opts.ThresholdHigh)
}

// Binarize converts an edge map produced elsewhere into a binary image:
// pixels at or above level become 255, the rest 0. The result has bounds
// starting at (0, 0).
func Binarize(img image.Image, level uint8) *image.Gray {
	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	return segment.Threshold(img, level)
}

// canny runs edge detection over a grayscale RGBA image, reading the red
// channel as luminance.
func canny(gray *image.RGBA, thresholdLow, thresholdHigh int) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return result
	}
	if thresholdLow > thresholdHigh {
		thresholdLow, thresholdHigh = thresholdHigh, thresholdLow
	}

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(gray.Pix[off+x*4]) / 255.0
		}
	}
	at := func(x, y int) float64 {
		return lum[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) -
				2*at(x-1, y) + 2*at(x+1, y) -
				at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression; the one-pixel border is never an edge.
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			n1, n2 := neighbours(magnitude, width, x, y, direction[i])
			if magnitude[i] >= n1 && magnitude[i] >= n2 {
				suppressed[i] = magnitude[i]
			}
		}
	}

	low := float64(thresholdLow) / 255.0
	high := float64(thresholdHigh) / 255.0

	// Hysteresis: grow strong seeds through weak pixels.
	var stack []int
	for i, v := range suppressed {
		if v >= high && v > 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if result.Pix[j] == 0 && suppressed[j] >= low && suppressed[j] > 0 {
					result.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return result
}

// neighbours returns the two magnitudes across the edge at (x, y).
func neighbours(magnitude []float64, width, x, y int, angle float64) (float64, float64) {
	at := func(x, y int) float64 { return magnitude[y*width+x] }
	switch {
	case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
		return at(x-1, y), at(x+1, y)
	case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
		return at(x+1, y+1), at(x-1, y-1)
	case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
		return at(x, y-1), at(x, y+1)
	default:
		return at(x-1, y+1), at(x+1, y-1)
	}
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

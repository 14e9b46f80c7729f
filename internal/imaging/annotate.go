package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// Marker is one box to draw, with an optional label beside it.
type Marker struct {
	Rect  image.Rectangle
	Label string
}

// AnnotateOptions controls how detections are drawn.
type AnnotateOptions struct {
	// BoxColor is the hex color of detection boxes. Default "#00FF00".
	BoxColor string

	// LineWidth is the box stroke width in pixels. Default 1.
	LineWidth float64

	// Guide is an optional reference rectangle, drawn in GuideColor, that
	// shows where the operator should hold the target.
	Guide *image.Rectangle

	// GuideColor is the hex color of the guide. Default "#0000FF".
	GuideColor string

	// LabelSeed seeds the random label hues, so a frame annotates the same
	// way every time.
	LabelSeed uint64
}

// Annotate draws markers (and the guide, if any) over a copy of img.
// Labels are placed to the right of each box in a random saturated hue.
func Annotate(img image.Image, markers []Marker, opts AnnotateOptions) (image.Image, error) {
	boxColor, err := parseColor(opts.BoxColor, "#00FF00")
	if err != nil {
		return nil, err
	}
	guideColor, err := parseColor(opts.GuideColor, "#0000FF")
	if err != nil {
		return nil, err
	}
	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}

	// gg draws in coordinates relative to (0, 0).
	origin := img.Bounds().Min
	dc := gg.NewContextForImage(imaging.Clone(img))
	dc.SetLineWidth(lineWidth)

	if opts.Guide != nil {
		strokeRect(dc, opts.Guide.Sub(origin), guideColor)
	}

	rng := rand.New(rand.NewPCG(opts.LabelSeed, opts.LabelSeed^0x9e3779b97f4a7c15))
	for _, m := range markers {
		r := m.Rect.Sub(origin)
		strokeRect(dc, r, boxColor)
		if m.Label == "" {
			continue
		}
		dc.SetColor(colorful.Hsv(rng.Float64()*360, 0.8, 1).Clamped())
		dc.DrawString(m.Label, float64(r.Max.X+4), float64(r.Min.Y+r.Dy()/2))
	}

	return dc.Image(), nil
}

func strokeRect(dc *gg.Context, r image.Rectangle, c color.Color) {
	dc.SetColor(c)
	dc.DrawRectangle(float64(r.Min.X)+0.5, float64(r.Min.Y)+0.5, float64(r.Dx()-1), float64(r.Dy()-1))
	dc.Stroke()
}

// parseColor parses a "#RRGGBB" color, falling back to def when hex is empty.
func parseColor(hex, def string) (color.Color, error) {
	if hex == "" {
		hex = def
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

package imaging

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/square-hough/internal/hough"
)

// HeatmapOptions controls heatmap rendering.
type HeatmapOptions struct {
	Title string

	// Width and Height are the plot size in inches. Default 6×6.
	Width  float64
	Height float64
}

// layerGrid adapts an accumulator layer to plotter.GridXYZ.
type layerGrid struct {
	layer *hough.Layer
}

func (g layerGrid) Dims() (c, r int)   { return g.layer.Width, g.layer.Height }
func (g layerGrid) Z(c, r int) float64 { return float64(g.layer.At(c, r)) }
func (g layerGrid) X(c int) float64    { return float64(c) }
func (g layerGrid) Y(r int) float64    { return float64(r) }

// Heatmap renders one accumulator layer as a PNG heatmap, hottest cells in
// the brightest colors. The Y axis is inverted so the plot reads like the
// frame it came from.
func Heatmap(layer *hough.Layer, opts HeatmapOptions) ([]byte, error) {
	if layer == nil || layer.Width == 0 || layer.Height == 0 {
		return nil, errors.New("heatmap needs a non-empty layer")
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 6
	}
	if height <= 0 {
		height = 6
	}

	hm := plotter.NewHeatMap(layerGrid{layer: layer}, palette.Heat(32, 1))
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	p.Add(hm)

	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render heatmap: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode heatmap: %w", err)
	}
	return buf.Bytes(), nil
}

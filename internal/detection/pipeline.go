package detection

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ironsheep/square-hough/internal/hough"
	"github.com/ironsheep/square-hough/internal/imaging"
)

// Strategy selects how the accumulator is filled.
type Strategy string

const (
	// StrategyExhaustive votes at every edge pixel.
	StrategyExhaustive Strategy = "exhaustive"

	// StrategyAdaptive votes at edge pixels found by the randomized sampler.
	StrategyAdaptive Strategy = "adaptive"
)

// ErrUnknownStrategy is returned for a strategy name other than
// "exhaustive" or "adaptive".
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy parses a strategy name, ignoring case and surrounding space.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyExhaustive, StrategyAdaptive:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownStrategy, s, StrategyExhaustive, StrategyAdaptive)
}

// Config describes one detection run over one frame.
type Config struct {
	Strategy Strategy
	Params   hough.Params
	Options  hough.Options

	// Seed seeds the adaptive sampler. The same seed on the same frame
	// reproduces the same accumulator.
	Seed uint64

	// Score selects which accumulator cells become squares.
	Score ScoreRange

	// Limit caps the number of squares reported across all layers. Zero or
	// less reports all of them.
	Limit int

	Preprocess imaging.PreprocessOptions

	// Crop restricts detection to a region of interest. Coordinates in the
	// result are relative to the cropped frame.
	Crop *image.Rectangle
}

// Result summarises a detection run.
type Result struct {
	Strategy   Strategy     `json:"strategy"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	EdgePixels int          `json:"edge_pixels"`
	Layers     []LayerStats `json:"layers"`
	Squares    []Square     `json:"squares"`
	Count      int          `json:"count"`

	// ElapsedMS is the time spent voting, in milliseconds.
	ElapsedMS float64 `json:"elapsed_ms"`
}

// Detection is everything a run produced: the summary plus the raw
// accumulator and the images it was computed from.
type Detection struct {
	Result *Result

	// Stack is the filled accumulator, one layer per edge length.
	Stack *hough.Stack

	// Frame is the (possibly cropped) frame the coordinates refer to.
	Frame image.Image

	// Edges is the binary edge map of Frame.
	Edges *image.Gray
}

// Run detects squares in one frame:
//
//  1. crop to cfg.Crop, if set
//  2. extract a binary edge map (imaging.Preprocess)
//  3. fill the accumulator with the configured strategy
//  4. summarise every layer and threshold it into squares
//
// Squares are reported layer by layer (shortest edge length first), each
// layer in row-major order, up to cfg.Limit in total.
//
// Parameter errors from the accumulator are returned unchanged so callers can
// match them with errors.Is against the hough sentinels.
func Run(img image.Image, cfg Config) (*Detection, error) {
	if img == nil {
		return nil, hough.ErrNilImage
	}
	if _, err := ParseStrategy(string(cfg.Strategy)); err != nil {
		return nil, err
	}
	if err := cfg.Score.Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.Params.Validate(cfg.Options.OverflowGuard); err != nil {
		return nil, err
	}

	frame := img
	if cfg.Crop != nil {
		cropped, err := imaging.CropRect(img, *cfg.Crop)
		if err != nil {
			return nil, err
		}
		frame = cropped
	}

	edges := imaging.Preprocess(frame, cfg.Preprocess)
	edgeImg := hough.EdgeImageFromGray(edges)

	start := time.Now()
	stack, err := vote(edgeImg, cfg)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Strategy:   cfg.Strategy,
		Width:      edgeImg.Width,
		Height:     edgeImg.Height,
		EdgePixels: edgeImg.EdgeCount(),
		Layers:     make([]LayerStats, 0, stack.Len()),
		Squares:    make([]Square, 0),
		ElapsedMS:  float64(elapsed.Microseconds()) / 1000,
	}
	for i := range stack.Layers {
		length := stack.EdgeLength(i)
		result.Layers = append(result.Layers, Stats(&stack.Layers[i], length))

		remaining := 0
		if cfg.Limit > 0 {
			remaining = cfg.Limit - len(result.Squares)
			if remaining == 0 {
				continue
			}
		}
		result.Squares = append(result.Squares, FindSquares(&stack.Layers[i], length, cfg.Score, remaining)...)
	}
	result.Count = len(result.Squares)

	return &Detection{Result: result, Stack: stack, Frame: frame, Edges: edges}, nil
}

func vote(img *hough.EdgeImage, cfg Config) (*hough.Stack, error) {
	if cfg.Strategy == StrategyExhaustive {
		return hough.Exhaustive(img, cfg.Params, cfg.Options)
	}
	return hough.Adaptive(img, cfg.Params, rand.NewPCG(cfg.Seed, cfg.Seed), cfg.Options)
}

// Markers converts squares into annotation markers labelled with their
// scores.
func Markers(squares []Square) []imaging.Marker {
	markers := make([]imaging.Marker, len(squares))
	for i, s := range squares {
		markers[i] = imaging.Marker{
			Rect:  image.Rect(s.Bounds.X1, s.Bounds.Y1, s.Bounds.X2, s.Bounds.Y2),
			Label: s.Label(),
		}
	}
	return markers
}

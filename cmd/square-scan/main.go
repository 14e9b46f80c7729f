package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/term"

	"github.com/ironsheep/square-hough/internal/config"
	"github.com/ironsheep/square-hough/internal/detection"
	"github.com/ironsheep/square-hough/internal/hough"
	squareimg "github.com/ironsheep/square-hough/internal/imaging"
)

// Version indicates the current build version.
var Version = "dev"

const (
	// message colors
	successColor = "\x1b[92m"
	errorColor   = "\x1b[31m"
	defaultColor = "\x1b[0m"
)

// scanner holds the settings of one square-scan invocation.
type scanner struct {
	det     detection.Config
	outDir  string
	heatmap bool
	guide   *image.Rectangle
	color   bool
	cache   *squareimg.ImageCache
}

func main() {
	log.SetFlags(0)

	cfg, err := config.Load()
	if err != nil {
		log.Printf("square-scan: %v", err)
		os.Exit(1)
	}

	var (
		source    = flag.String("in", "", "Source image, or a directory of frames")
		outDir    = flag.String("out", ".", "Directory for annotated frames and heatmaps")
		length    = flag.Float64("length", cfg.Length, "Square edge length in pixels")
		minLength = flag.Float64("min", 0, "Smallest edge length to vote for (default: length)")
		maxLength = flag.Float64("max", 0, "Largest edge length to vote for (default: length)")
		strategy  = flag.String("strategy", string(cfg.Strategy), "Voting strategy: exhaustive|adaptive")
		seed      = flag.Uint64("seed", cfg.Seed, "Adaptive sampler seed")
		budget    = flag.Int("budget", cfg.Budget, "Adaptive sampler probes per frame")
		scoreMin  = flag.Uint64("score", cfg.ScoreMin, "Minimum votes to report a square")
		scoreMax  = flag.Uint64("score-max", cfg.ScoreMax, "Maximum votes to report a square (0 = no maximum)")
		limit     = flag.Int("limit", cfg.Limit, "Maximum squares per frame (0 = no limit)")
		cannyLow  = flag.Int("canny-low", cfg.CannyLow, "Canny low threshold")
		cannyHigh = flag.Int("canny-high", cfg.CannyHigh, "Canny high threshold")
		blur      = flag.Float64("blur", cfg.BlurRadius, "Gaussian blur radius before edge detection")
		edgeMap   = flag.Bool("edges", cfg.EdgeMap, "Frames are edge maps already; binarize instead of running Canny")
		legacy    = flag.Bool("legacy-left-column", cfg.LegacyLeftColumn, "Skip left-side votes like the first detector release")
		guard     = flag.String("overflow-guard", "", "Bound on max length x 4: legacy|uint64|<number> (default from config)")
		crop      = flag.String("crop", "", "Region of interest x1,y1,x2,y2 (default from config)")
		guide     = flag.String("guide", "", "Reference rectangle x1,y1,x2,y2 drawn on each frame")
		heatmap   = flag.Bool("heatmap", false, "Also write a heatmap of the hottest accumulator layer")
		version   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("square-scan %s\n", Version)
		return
	}
	if *source == "" {
		log.Print("Usage: square-scan -in frame.png [-out dir] [-length 80] [-strategy adaptive]")
		os.Exit(1)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg.Length = *length
	if set["length"] {
		cfg.MinLength, cfg.MaxLength = nil, nil
	}
	if set["min"] {
		cfg.MinLength = minLength
	}
	if set["max"] {
		cfg.MaxLength = maxLength
	}
	cfg.Seed = *seed
	cfg.Budget = *budget
	cfg.ScoreMin = *scoreMin
	cfg.ScoreMax = *scoreMax
	cfg.Limit = *limit
	cfg.CannyLow = *cannyLow
	cfg.CannyHigh = *cannyHigh
	cfg.BlurRadius = *blur
	cfg.EdgeMap = *edgeMap
	cfg.LegacyLeftColumn = *legacy

	if cfg.Strategy, err = detection.ParseStrategy(*strategy); err != nil {
		fail(err)
	}
	if *guard != "" {
		if cfg.OverflowGuard, err = config.ParseOverflowGuard(*guard); err != nil {
			fail(err)
		}
	}
	if *crop != "" {
		if cfg.Crop, err = config.ParseRect(*crop); err != nil {
			fail(err)
		}
	}
	guideRect, err := config.ParseRect(*guide)
	if err != nil {
		fail(err)
	}

	s := &scanner{
		det:     cfg.Detection(),
		outDir:  *outDir,
		heatmap: *heatmap,
		guide:   guideRect,
		color:   term.IsTerminal(int(os.Stdout.Fd())),
		cache:   squareimg.NewImageCache(),
	}

	// Reject bad sizes before touching any frame.
	if _, err := s.det.Params.Validate(s.det.Options.OverflowGuard); err != nil {
		fail(err)
	}

	frames, err := collectFrames(*source)
	if err != nil {
		fail(err)
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		fail(err)
	}

	start := time.Now()
	failed := 0
	for _, frame := range frames {
		if err := s.scan(frame); err != nil {
			failed++
			fmt.Println(s.paint(errorColor, fmt.Sprintf("%s: %v", filepath.Base(frame), err)))
			if errors.Is(err, hough.ErrType) || errors.Is(err, hough.ErrRange) || errors.Is(err, hough.ErrOverflow) {
				os.Exit(1)
			}
		}
	}

	summary := fmt.Sprintf("%d frame(s) scanned in %.2fs", len(frames)-failed, time.Since(start).Seconds())
	fmt.Println(s.paint(successColor, summary))
	if failed > 0 {
		os.Exit(2)
	}
}

func fail(err error) {
	log.Printf("square-scan: %v", err)
	os.Exit(1)
}

// collectFrames returns source itself, or the frames inside it in name order
// when it is a directory.
func collectFrames(source string) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{source}, nil
	}
	frames, err := squareimg.ListFrames(source)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames in %s", source)
	}
	return frames, nil
}

// outputPath returns dir/<base name of frame><suffix>.
func outputPath(dir, frame, suffix string) string {
	base := filepath.Base(frame)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+suffix)
}

// scan detects squares in one frame and writes its outputs.
func (s *scanner) scan(frame string) error {
	img, err := s.cache.Load(frame)
	if err != nil {
		return err
	}
	// Frames are visited once.
	defer s.cache.Evict(frame)

	det, err := detection.Run(img, s.det)
	if err != nil {
		return err
	}
	res := det.Result

	annotated, err := squareimg.Annotate(det.Frame, detection.Markers(res.Squares), squareimg.AnnotateOptions{
		Guide:     s.guide,
		LabelSeed: s.det.Seed,
	})
	if err != nil {
		return err
	}
	if err := imaging.Save(annotated, outputPath(s.outDir, frame, "_squares.png")); err != nil {
		return fmt.Errorf("failed to save annotated frame: %w", err)
	}

	if s.heatmap {
		if err := s.writeHeatmap(frame, det); err != nil {
			return err
		}
	}

	count := fmt.Sprintf("%d square(s)", res.Count)
	if res.Count > 0 {
		count = s.paint(successColor, count)
	}
	fmt.Printf("%s: %s, %d edge pixels, voting %.1fms\n", filepath.Base(frame), count, res.EdgePixels, res.ElapsedMS)
	return nil
}

func (s *scanner) writeHeatmap(frame string, det *detection.Detection) error {
	best, ok := detection.Hottest(det.Result.Layers)
	if !ok {
		return fmt.Errorf("no accumulator layers to plot")
	}
	layer, _ := det.Stack.Layer(best.EdgeLength)

	data, err := squareimg.Heatmap(layer, squareimg.HeatmapOptions{
		Title: fmt.Sprintf("%s (L=%d)", filepath.Base(frame), best.EdgeLength),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath(s.outDir, frame, "_heatmap.png"), data, 0o644); err != nil {
		return fmt.Errorf("failed to save heatmap: %w", err)
	}
	return nil
}

// paint wraps msg in an ANSI color when stdout is a terminal.
func (s *scanner) paint(color, msg string) string {
	if !s.color {
		return msg
	}
	return color + msg + defaultColor
}

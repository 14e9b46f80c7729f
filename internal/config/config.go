// Package config loads detector settings from the environment.
//
// Values are read from process environment variables, after merging in a
// .env file from the working directory when one exists. Unset variables take
// the defaults the detector was tuned with; malformed ones are errors naming
// the variable.
package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/square-hough/internal/detection"
	"github.com/ironsheep/square-hough/internal/hough"
	"github.com/ironsheep/square-hough/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel         = "SQUARE_MCP_LOG_LEVEL"
	EnvLength           = "SQUARE_LENGTH"
	EnvMinLength        = "SQUARE_MIN_LENGTH"
	EnvMaxLength        = "SQUARE_MAX_LENGTH"
	EnvScoreMin         = "SQUARE_SCORE_MIN"
	EnvScoreMax         = "SQUARE_SCORE_MAX"
	EnvLimit            = "SQUARE_LIMIT"
	EnvCannyLow         = "SQUARE_CANNY_LOW"
	EnvCannyHigh        = "SQUARE_CANNY_HIGH"
	EnvBlurRadius       = "SQUARE_BLUR_RADIUS"
	EnvEdgeMap          = "SQUARE_EDGE_MAP"
	EnvBudget           = "SQUARE_BUDGET"
	EnvSeed             = "SQUARE_SEED"
	EnvStrategy         = "SQUARE_STRATEGY"
	EnvLegacyLeftColumn = "SQUARE_LEGACY_LEFT_COLUMN"
	EnvOverflowGuard    = "SQUARE_OVERFLOW_GUARD"
	EnvCrop             = "SQUARE_CROP"
)

// ErrInvalidValue is wrapped by every parse error.
var ErrInvalidValue = errors.New("invalid configuration value")

// Config holds the detector defaults shared by the MCP server and the CLI.
type Config struct {
	LogLevel string

	Length float64

	// MinLength and MaxLength are nil when unset, meaning Length.
	MinLength *float64
	MaxLength *float64

	ScoreMin uint64
	ScoreMax uint64
	Limit    int

	CannyLow   int
	CannyHigh  int
	BlurRadius float64

	// EdgeMap means frames are edge maps from another tool and are only
	// binarized.
	EdgeMap bool

	Budget   int
	Seed     uint64
	Strategy detection.Strategy

	// LegacyLeftColumn reproduces the accumulator of the first detector
	// release, whose left column never voted.
	LegacyLeftColumn bool

	// OverflowGuard is the bound on MaxLength × 4.
	OverflowGuard float64

	// Crop is the region of interest, nil for the whole frame.
	Crop *image.Rectangle
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		Length:        80,
		ScoreMin:      90,
		Limit:         10,
		CannyLow:      23,
		CannyHigh:     20,
		BlurRadius:    imaging.DefaultBlurRadius,
		Budget:        hough.DefaultBudget,
		Seed:          1,
		Strategy:      detection.StrategyAdaptive,
		OverflowGuard: hough.LegacyOverflowGuard,
	}
}

// Load reads the configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a configuration from lookup, which reports a variable's
// value and whether it is set.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	if v, ok := p.get(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	p.floatVar(EnvLength, &cfg.Length)
	cfg.MinLength = p.optionalFloat(EnvMinLength)
	cfg.MaxLength = p.optionalFloat(EnvMaxLength)
	p.uintVar(EnvScoreMin, &cfg.ScoreMin)
	p.uintVar(EnvScoreMax, &cfg.ScoreMax)
	p.intVar(EnvLimit, &cfg.Limit)
	p.intVar(EnvCannyLow, &cfg.CannyLow)
	p.intVar(EnvCannyHigh, &cfg.CannyHigh)
	p.floatVar(EnvBlurRadius, &cfg.BlurRadius)
	p.boolVar(EnvEdgeMap, &cfg.EdgeMap)
	p.intVar(EnvBudget, &cfg.Budget)
	p.uintVar(EnvSeed, &cfg.Seed)
	p.boolVar(EnvLegacyLeftColumn, &cfg.LegacyLeftColumn)

	if v, ok := p.get(EnvStrategy); ok {
		s, err := detection.ParseStrategy(v)
		p.fail(EnvStrategy, err)
		cfg.Strategy = s
	}
	if v, ok := p.get(EnvOverflowGuard); ok {
		g, err := ParseOverflowGuard(v)
		p.fail(EnvOverflowGuard, err)
		cfg.OverflowGuard = g
	}
	if v, ok := p.get(EnvCrop); ok {
		r, err := ParseRect(v)
		p.fail(EnvCrop, err)
		cfg.Crop = r
	}

	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Detection converts the configuration into a pipeline configuration.
func (c *Config) Detection() detection.Config {
	sides := hough.AllSides
	if c.LegacyLeftColumn {
		sides = hough.LegacySides
	}
	return detection.Config{
		Strategy: c.Strategy,
		Params: hough.Params{
			Length:    c.Length,
			MinLength: c.MinLength,
			MaxLength: c.MaxLength,
		},
		Options: hough.Options{
			OverflowGuard: c.OverflowGuard,
			Sides:         sides,
			Budget:        c.Budget,
		},
		Seed:  c.Seed,
		Score: detection.ScoreRange{Min: c.ScoreMin, Max: c.ScoreMax},
		Limit: c.Limit,
		Preprocess: imaging.PreprocessOptions{
			BlurRadius:    c.BlurRadius,
			ThresholdLow:  c.CannyLow,
			ThresholdHigh: c.CannyHigh,
			EdgeMap:       c.EdgeMap,
		},
		Crop: c.Crop,
	}
}

// ParseOverflowGuard parses "legacy", "uint64" or a positive number.
func ParseOverflowGuard(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "":
		return hough.LegacyOverflowGuard, nil
	case "uint64":
		return hough.CounterOverflowGuard, nil
	}
	g, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if g <= 0 {
		return 0, fmt.Errorf("guard %v must be positive", g)
	}
	return g, nil
}

// ParseRect parses "x1,y1,x2,y2" into a rectangle. An empty string means no
// rectangle.
func ParseRect(s string) (*image.Rectangle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = n
	}
	r := image.Rect(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return nil, fmt.Errorf("%q: empty rectangle", s)
	}
	return &r, nil
}

// parser accumulates the first error across a series of lookups.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(name string) (string, bool) {
	v, ok := p.lookup(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (p *parser) fail(name string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
	}
}

func (p *parser) floatVar(name string, dst *float64) {
	if v, ok := p.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		p.fail(name, err)
		if err == nil {
			*dst = f
		}
	}
}

func (p *parser) optionalFloat(name string) *float64 {
	var f float64
	if _, ok := p.get(name); !ok {
		return nil
	}
	p.floatVar(name, &f)
	return &f
}

func (p *parser) intVar(name string, dst *int) {
	if v, ok := p.get(name); ok {
		n, err := strconv.Atoi(v)
		p.fail(name, err)
		if err == nil {
			*dst = n
		}
	}
}

func (p *parser) uintVar(name string, dst *uint64) {
	if v, ok := p.get(name); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		p.fail(name, err)
		if err == nil {
			*dst = n
		}
	}
}

func (p *parser) boolVar(name string, dst *bool) {
	if v, ok := p.get(name); ok {
		b, err := strconv.ParseBool(v)
		p.fail(name, err)
		if err == nil {
			*dst = b
		}
	}
}

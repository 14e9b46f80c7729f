package hough

import (
	"fmt"
	"math"
)

const (
	// LegacyOverflowGuard is the historical bound on maxLength × 4 (about 2^65).
	// It sits above the capacity of the uint64 counters and so never binds for
	// realistic sizes; it is kept as the default for compatibility.
	LegacyOverflowGuard = 36893488147419103000.0

	// CounterOverflowGuard is the capacity of one accumulator counter.
	CounterOverflowGuard = float64(math.MaxUint64)

	// DefaultBudget is the number of probes Adaptive makes per invocation.
	DefaultBudget = 15000
)

// SideMode selects which sides of a candidate square deposit votes.
type SideMode uint8

const (
	// AllSides votes the full perimeter.
	AllSides SideMode = iota

	// LegacySides reproduces the historical voter, whose left column took part
	// in corner correction but never deposited votes. The left corners of a
	// fully drawn square therefore net zero. Use it only when thresholds were
	// tuned against that output.
	LegacySides
)

func (m SideMode) String() string {
	switch m {
	case AllSides:
		return "all"
	case LegacySides:
		return "legacy"
	default:
		return fmt.Sprintf("SideMode(%d)", uint8(m))
	}
}

// Params are the size parameters of one voting invocation.
//
// Sizes are float64 because they normally arrive from JSON, flags or the
// environment; Validate rejects values that are not whole numbers.
type Params struct {
	// Length is the default edge length, used for MinLength and MaxLength
	// when they are nil.
	Length float64

	// MinLength is the smallest candidate edge length (inclusive).
	MinLength *float64

	// MaxLength is the largest candidate edge length (inclusive).
	MaxLength *float64

	// Rotate is reserved for rotated squares and is ignored by the voters.
	Rotate float64
}

// Options tune the voting strategies. The zero value is ready to use.
type Options struct {
	// OverflowGuard bounds maxLength × 4. Zero means LegacyOverflowGuard.
	OverflowGuard float64

	// Sides selects the perimeter voting mode.
	Sides SideMode

	// Budget is the number of Adaptive probes. Zero means DefaultBudget.
	Budget int
}

func (o Options) guard() float64 {
	if o.OverflowGuard == 0 {
		return LegacyOverflowGuard
	}
	return o.OverflowGuard
}

func (o Options) budget() int {
	if o.Budget <= 0 {
		return DefaultBudget
	}
	return o.Budget
}

// SizeRange is a validated, inclusive range of candidate edge lengths.
type SizeRange struct {
	Min int
	Max int
}

// Span is the number of candidate edge lengths in the range.
func (r SizeRange) Span() int {
	return r.Max - r.Min + 1
}

// Validate checks p and resolves it into a SizeRange.
//
// Checks run in order: every size must be a whole number (ErrType), MaxLength
// must not be below MinLength and MinLength must not be negative (ErrRange),
// and MaxLength × 4 must not exceed guard (ErrOverflow). A guard of zero means
// LegacyOverflowGuard.
func (p Params) Validate(guard float64) (SizeRange, error) {
	if guard == 0 {
		guard = LegacyOverflowGuard
	}

	minLength, maxLength := p.Length, p.Length
	if p.MinLength != nil {
		minLength = *p.MinLength
	}
	if p.MaxLength != nil {
		maxLength = *p.MaxLength
	}

	for _, v := range []struct {
		name string
		val  float64
	}{
		{"length", p.Length},
		{"minLength", minLength},
		{"maxLength", maxLength},
	} {
		if !isWhole(v.val) {
			return SizeRange{}, fmt.Errorf("%w: %s is %v", ErrType, v.name, v.val)
		}
	}

	if maxLength < minLength {
		return SizeRange{}, fmt.Errorf("%w: maxLength %v is less than minLength %v", ErrRange, maxLength, minLength)
	}
	if minLength < 0 {
		return SizeRange{}, fmt.Errorf("%w: minLength %v is negative", ErrRange, minLength)
	}

	if product := maxLength * 4; product > guard {
		return SizeRange{}, fmt.Errorf("%w: maxLength * 4 is %.0f, but must not exceed %.0f", ErrOverflow, product, guard)
	}
	// Beyond this the conversion to int is undefined.
	if maxLength >= math.MaxInt64 {
		return SizeRange{}, fmt.Errorf("%w: maxLength %.0f does not fit an int", ErrOverflow, maxLength)
	}

	return SizeRange{Min: int(minLength), Max: int(maxLength)}, nil
}

func isWhole(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v)
}

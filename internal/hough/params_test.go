package hough

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		guard   float64
		want    SizeRange
		wantErr error
	}{
		{"defaults to length", Params{Length: 80}, 0, SizeRange{80, 80}, nil},
		{"explicit range", Params{Length: 80, MinLength: f(10), MaxLength: f(20)}, 0, SizeRange{10, 20}, nil},
		{"only max", Params{Length: 4, MaxLength: f(6)}, 0, SizeRange{4, 6}, nil},
		{"zero length", Params{Length: 0}, 0, SizeRange{0, 0}, nil},
		{"rotate ignored", Params{Length: 5, Rotate: 45}, 0, SizeRange{5, 5}, nil},
		{"negative min", Params{Length: 4, MinLength: f(-1)}, 0, SizeRange{}, ErrRange},
		{"max below min", Params{Length: 4, MinLength: f(5), MaxLength: f(2)}, 0, SizeRange{}, ErrRange},
		{"fractional length", Params{Length: 2.5, MinLength: f(2), MaxLength: f(3)}, 0, SizeRange{}, ErrType},
		{"fractional max", Params{Length: 2, MaxLength: f(3.25)}, 0, SizeRange{}, ErrType},
		{"nan", Params{Length: math.NaN()}, 0, SizeRange{}, ErrType},
		{"infinite", Params{Length: math.Inf(1)}, 0, SizeRange{}, ErrType},
		{"legacy guard", Params{Length: 1e19}, 0, SizeRange{}, ErrOverflow},
		{"counter guard", Params{Length: 5e18}, CounterOverflowGuard, SizeRange{}, ErrOverflow},
		{"custom guard", Params{Length: 4, MaxLength: f(26)}, 100, SizeRange{}, ErrOverflow},
		{"custom guard boundary", Params{Length: 4, MaxLength: f(25)}, 100, SizeRange{4, 25}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.Validate(tt.guard)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("range: got %+v, want %+v", got, tt.want)
			}
			if got.Span() != tt.want.Max-tt.want.Min+1 {
				t.Errorf("span: got %d", got.Span())
			}
		})
	}
}

func TestParamsValidate_OverflowMessage(t *testing.T) {
	_, err := Params{Length: 1e19}.Validate(0)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	msg := err.Error()
	for _, want := range []string{"40000000000000000000", "36893488147419103232"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %s", msg, want)
		}
	}
}

func TestParamsValidate_TypeBeforeRange(t *testing.T) {
	_, err := Params{Length: 1.5, MinLength: f(-1)}.Validate(0)
	if !errors.Is(err, ErrType) {
		t.Errorf("got %v, want ErrType", err)
	}
}

func TestSideModeString(t *testing.T) {
	if AllSides.String() != "all" || LegacySides.String() != "legacy" {
		t.Errorf("unexpected names %q %q", AllSides, LegacySides)
	}
	if got := SideMode(9).String(); got != "SideMode(9)" {
		t.Errorf("got %q", got)
	}
}

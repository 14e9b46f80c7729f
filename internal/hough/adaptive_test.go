package hough

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareOutline returns an image with the outline of a length×length square
// whose top-left corner is at (x0, y0).
func squareOutline(width, height, x0, y0, length int) *EdgeImage {
	img := NewEdgeImage(width, height)
	for i := 0; i < length; i++ {
		img.Set(x0+i, y0, 255)
		img.Set(x0+i, y0+length-1, 255)
		img.Set(x0, y0+i, 255)
		img.Set(x0+length-1, y0+i, 255)
	}
	return img
}

func TestAdaptive_Reproducible(t *testing.T) {
	img := squareOutline(64, 48, 20, 12, 16)
	p := Params{Length: 16, MinLength: f(14), MaxLength: f(18)}

	a, err := Adaptive(img, p, rand.NewPCG(7, 11), Options{})
	require.NoError(t, err)
	b, err := Adaptive(img, p, rand.NewPCG(7, 11), Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different stacks (-a +b):\n%s", diff)
	}
}

func TestAdaptive_BoundedByExhaustive(t *testing.T) {
	// Each pixel is probed at most once per call, so every cell holds at most
	// what the exhaustive sweep puts there.
	img := squareOutline(40, 40, 10, 10, 12)
	p := Params{Length: 12, MinLength: f(10), MaxLength: f(13)}

	full, err := Exhaustive(img, p, Options{})
	require.NoError(t, err)

	for seed := uint64(1); seed <= 3; seed++ {
		approx, err := Adaptive(img, p, rand.NewPCG(seed, seed), Options{})
		require.NoError(t, err)
		require.Equal(t, full.Len(), approx.Len())

		for i := range full.Layers {
			for j, c := range approx.Layers[i].Counts {
				if c > full.Layers[i].Counts[j] {
					t.Fatalf("seed %d layer %d cell %d: %d votes exceed exhaustive %d",
						seed, i, j, c, full.Layers[i].Counts[j])
				}
			}
		}
	}
}

func TestAdaptive_CenterPixel(t *testing.T) {
	img := NewEdgeImage(21, 21)
	img.Set(10, 10, 1)
	p := Params{Length: 6}

	full, err := Exhaustive(img, p, Options{})
	require.NoError(t, err)
	approx, err := Adaptive(img, p, rand.NewPCG(3, 5), Options{})
	require.NoError(t, err)

	assert.Equal(t, full.Layers[0].Counts, approx.Layers[0].Counts)
}

func TestAdaptive_NoEdges(t *testing.T) {
	stack, err := Adaptive(NewEdgeImage(30, 20), Params{Length: 5}, rand.NewPCG(1, 1), Options{Budget: 500})
	require.NoError(t, err)
	assert.Equal(t, make([]uint64, 600), stack.Layers[0].Counts)
}

func TestAdaptive_TinyImages(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {1, 1}, {2, 1}, {1, 5}} {
		img := NewEdgeImage(size[0], size[1])
		for i := range img.Pix {
			img.Pix[i] = 1
		}
		stack, err := Adaptive(img, Params{Length: 2}, rand.NewPCG(1, 2), Options{Budget: 50})
		require.NoError(t, err, "size %v", size)
		assert.Len(t, stack.Layers[0].Counts, size[0]*size[1])
	}
}

func TestAdaptive_Budget(t *testing.T) {
	// Every pixel is an edge, so a budget of one probe is exactly one hit.
	img := NewEdgeImage(30, 30)
	for i := range img.Pix {
		img.Pix[i] = 1
	}

	stack, err := Adaptive(img, Params{Length: 4}, rand.NewPCG(9, 9), Options{Budget: 1})
	require.NoError(t, err)

	matches := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			one := newLayer(30, 30)
			VoteSquare(one, x, y, 4, AllSides)
			if cmp.Equal(one.Counts, stack.Layers[0].Counts) {
				matches++
			}
		}
	}
	assert.Equal(t, 1, matches)
}

func TestAdaptive_Errors(t *testing.T) {
	img := NewEdgeImage(4, 4)

	_, err := Adaptive(img, Params{Length: 4}, nil, Options{})
	assert.ErrorIs(t, err, ErrNilSource)

	stack, err := Adaptive(img, Params{Length: 4, MinLength: f(-1)}, rand.NewPCG(1, 1), Options{})
	assert.ErrorIs(t, err, ErrRange)
	assert.Nil(t, stack)

	_, err = Adaptive(img, Params{Length: 2.5}, nil, Options{})
	assert.ErrorIs(t, err, ErrType)

	_, err = Adaptive(nil, Params{Length: 2}, rand.NewPCG(1, 1), Options{})
	assert.ErrorIs(t, err, ErrNilImage)

	stack, err = Adaptive(NewEdgeImage(500, 500), Params{Length: 80, MaxLength: f(4e18)}, rand.NewPCG(1, 1), Options{})
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Nil(t, stack)
}

func TestSampler_SpreadSchedule(t *testing.T) {
	// On a single pixel every draw lands on (0, 0), so the schedule can be
	// followed probe by probe.
	img := NewEdgeImage(1, 1)
	s := newSampler(img, rand.NewPCG(1, 1))
	s.sx, s.sy = 2, 3

	x, y, hit := s.step()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.False(t, hit, "background pixel is not a hit")
	assert.InDelta(t, 1.9, s.sx, 1e-9, "fresh miss cools once")
	assert.InDelta(t, 2.9, s.sy, 1e-9, "fresh miss cools once")

	_, _, hit = s.step()
	assert.False(t, hit)
	assert.InDelta(t, 1.91, s.sx, 1e-9, "revisit widens")
	assert.InDelta(t, 2.91, s.sy, 1e-9, "revisit widens")

	img.Set(0, 0, 1)
	s = newSampler(img, rand.NewPCG(1, 1))
	s.sx, s.sy = 2, 3
	s.cx, s.cy = 0.4, 0.3

	_, _, hit = s.step()
	assert.True(t, hit)
	assert.InDelta(t, 1.8, s.sx, 1e-9, "hit cools twice")
	assert.InDelta(t, 2.8, s.sy, 1e-9, "hit cools twice")
	assert.Equal(t, 0.0, s.cx)
	assert.Equal(t, 0.0, s.cy)
}

func TestSampler_SpreadFloor(t *testing.T) {
	s := newSampler(NewEdgeImage(1, 1), rand.NewPCG(1, 1))
	s.sx, s.sy = 0.65, 0.5

	s.cool()
	assert.InDelta(t, 0.55, s.sx, 1e-9)
	assert.Equal(t, minSpread, s.sy)

	s.cool()
	s.cool()
	assert.Equal(t, minSpread, s.sx)
	assert.Equal(t, minSpread, s.sy)
}

func TestSampler_RecentersOnHit(t *testing.T) {
	img := NewEdgeImage(40, 30)
	for i := range img.Pix {
		img.Pix[i] = 1
	}
	s := newSampler(img, rand.NewPCG(5, 8))
	assert.Equal(t, 20.0, s.cx)
	assert.Equal(t, 15.0, s.cy)
	assert.Equal(t, 13.0, s.sx)
	assert.Equal(t, 10.0, s.sy)

	for i := 0; i < 20; i++ {
		x, y, hit := s.step()
		if !hit {
			continue
		}
		assert.Equal(t, float64(x), s.cx, "step %d", i)
		assert.Equal(t, float64(y), s.cy, "step %d", i)
		assert.True(t, s.visited[y*img.Width+x])
	}
}

package hough

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// coolStep narrows the search spread after every fresh probe and again
	// after every hit.
	coolStep = 0.1

	// minSpread is the floor the spread cools to.
	minSpread = 0.5

	// widenStep grows the spread when a probe lands on a visited pixel.
	widenStep = 0.01
)

// sampler is the search state of one Adaptive invocation.
type sampler struct {
	img     *EdgeImage
	src     rand.Source
	cx, cy  float64
	sx, sy  float64
	visited []bool
}

// Adaptive approximates Exhaustive with a bounded, randomized search.
//
// The search starts at the image center with a spread of a third of the image
// on each axis. Every probe draws a pixel from a normal distribution around
// the current center and:
//
//  1. on a pixel already probed in this call, widens the spread slightly and
//     moves on;
//  2. otherwise marks it probed and cools the spread toward minSpread;
//  3. if the pixel is an edge, recenters there, cools again and votes one
//     square per candidate size at it.
//
// The search stops after opts.Budget probes (DefaultBudget if zero). All
// randomness comes from src, so a fixed seed reproduces the output exactly.
func Adaptive(img *EdgeImage, p Params, src rand.Source, opts Options) (*Stack, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	r, err := p.Validate(opts.guard())
	if err != nil {
		return nil, err
	}
	if err := checkStackSize(r, img.Width, img.Height); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNilSource
	}

	stack := newStack(r, img.Width, img.Height)
	if img.Width == 0 || img.Height == 0 {
		return stack, nil
	}

	s := newSampler(img, src)

	// The spread never drops below minSpread, so in practice only the budget
	// ends the loop.
	for budget := opts.budget(); budget > 0 && s.sx >= 0 && s.sy >= 0; budget-- {
		x, y, hit := s.step()
		if !hit {
			continue
		}
		for i := range stack.Layers {
			VoteSquare(&stack.Layers[i], x, y, r.Min+i, opts.Sides)
		}
	}
	return stack, nil
}

// newSampler starts a search at the center of img with a spread of a third
// of the image on each axis.
func newSampler(img *EdgeImage, src rand.Source) *sampler {
	return &sampler{
		img:     img,
		src:     src,
		cx:      float64(img.Width / 2),
		cy:      float64(img.Height / 2),
		sx:      float64(img.Width / 3),
		sy:      float64(img.Height / 3),
		visited: make([]bool, img.Width*img.Height),
	}
}

// step makes one probe. On a fresh edge pixel it recenters there, cools the
// spread a second time and reports a hit.
func (s *sampler) step() (x, y int, hit bool) {
	x, y, ok := s.probe()
	if !ok || !s.img.IsEdge(x, y) {
		return x, y, false
	}
	s.cx, s.cy = float64(x), float64(y)
	s.cool()
	return x, y, true
}

// probe draws the next pixel. It reports false when the pixel was already
// probed, after widening the spread.
func (s *sampler) probe() (x, y int, ok bool) {
	x = s.draw(s.cx, s.sx, s.img.Width)
	y = s.draw(s.cy, s.sy, s.img.Height)

	i := y*s.img.Width + x
	if s.visited[i] {
		s.sx += widenStep
		s.sy += widenStep
		return x, y, false
	}
	s.visited[i] = true
	s.cool()
	return x, y, true
}

// draw samples one coordinate, rounds half to even and clamps it to [0, n-1].
func (s *sampler) draw(mu, sigma float64, n int) int {
	v := math.RoundToEven(distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand())
	switch {
	case v < 0:
		return 0
	case v > float64(n-1):
		return n - 1
	}
	return int(v)
}

func (s *sampler) cool() {
	s.sx = math.Max(minSpread, s.sx-coolStep)
	s.sy = math.Max(minSpread, s.sy-coolStep)
}

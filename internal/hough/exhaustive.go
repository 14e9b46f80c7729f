package hough

// Exhaustive votes every candidate size at every edge pixel of img and
// returns the complete accumulator.
//
// Pixels are visited in row-major order; for each edge pixel one square per
// edge length in the validated range is voted into the matching layer. The
// result is deterministic. Cost grows with edgePixels × sizes and there is no
// early exit, so callers bound it by choosing the frame size and size range.
func Exhaustive(img *EdgeImage, p Params, opts Options) (*Stack, error) {
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
	stack := newStack(r, img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			for i := range stack.Layers {
				VoteSquare(&stack.Layers[i], x, y, r.Min+i, opts.Sides)
			}
		}
	}
	return stack, nil
}

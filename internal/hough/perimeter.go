package hough

// VoteSquare adds one vote along the perimeter of the square of the given
// edge length centered at (x, y).
//
// Each side is drawn only if it lies inside the layer on its own axis (the
// top row needs top >= 0, the right column needs right <= Width, and so on),
// and is clipped to the layer on the other axis. A corner shared by two drawn
// sides is counted once. A corner reached by only one drawn side keeps that
// single vote.
//
// An edge length of 0 votes nothing; 1 votes the center pixel once. The
// caller is responsible for a non-negative length (see Params.Validate).
func VoteSquare(l *Layer, x, y, edgeLength int, sides SideMode) {
	switch {
	case edgeLength <= 0:
		return
	case edgeLength == 1:
		if x >= 0 && y >= 0 && x < l.Width && y < l.Height {
			l.Counts[y*l.Width+x]++
		}
		return
	}

	w, h := l.Width, l.Height
	top := y - edgeLength/2
	left := x - edgeLength/2
	bottom := top + edgeLength
	right := left + edgeLength

	// Clipped spans shared by the rows and the columns.
	x0, x1 := max(0, left), min(right, w)
	y0, y1 := max(0, top), min(bottom, h)

	// How many drawn sides meet at each corner.
	var lt, rt, lb, rb int

	if bottom <= h && bottom >= 1 {
		addRow(l, bottom-1, x0, x1)
		if left >= 0 {
			lb++
		}
		if right <= w {
			rb++
		}
	}

	if top >= 0 && top < h {
		addRow(l, top, x0, x1)
		if left >= 0 {
			lt++
		}
		if right <= w {
			rt++
		}
	}

	if left >= 0 && left < w {
		if sides != LegacySides {
			addColumn(l, left, y0, y1)
		}
		if top >= 0 {
			lt++
		}
		if bottom <= h {
			lb++
		}
	}

	if right <= w && right >= 1 {
		addColumn(l, right-1, y0, y1)
		if top >= 0 {
			rt++
		}
		if bottom <= h {
			rb++
		}
	}

	if lt == 2 {
		l.Counts[top*w+left]--
	}
	if rt == 2 {
		l.Counts[top*w+right-1]--
	}
	if lb == 2 {
		l.Counts[(bottom-1)*w+left]--
	}
	if rb == 2 {
		l.Counts[(bottom-1)*w+right-1]--
	}
}

// addRow increments row y over columns [x0, x1).
func addRow(l *Layer, y, x0, x1 int) {
	row := l.Counts[y*l.Width : (y+1)*l.Width]
	for x := x0; x < x1; x++ {
		row[x]++
	}
}

// addColumn increments column x over rows [y0, y1).
func addColumn(l *Layer, x, y0, y1 int) {
	for y := y0; y < y1; y++ {
		l.Counts[y*l.Width+x]++
	}
}

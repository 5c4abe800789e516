package transform

import "image"

// applyStroke commits a freehand brush stroke: circular dabs of the
// brush color stamped along Bresenham lines between consecutive path
// points. Points outside the canvas clip silently; a single-point path
// paints one dab.
func applyStroke(src *image.RGBA, op Op) (*image.RGBA, error) {
	if len(op.Path) == 0 {
		return nil, opErrorf(KindStroke, "empty path")
	}
	if op.Brush < 1 {
		return nil, opErrorf(KindStroke, "brush width %d", op.Brush)
	}

	dst := clone(src)
	dab(dst, op.Path[0].X, op.Path[0].Y, op)
	for i := 1; i < len(op.Path); i++ {
		drawLine(dst, op.Path[i-1], op.Path[i], op)
	}
	return dst, nil
}

// drawLine stamps dabs along the Bresenham line from a to b.
func drawLine(img *image.RGBA, a, b image.Point, op Op) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		dab(img, x, y, op)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// dab paints a filled circle of the brush diameter centered on (cx, cy).
func dab(img *image.RGBA, cx, cy int, op Op) {
	r := op.Brush / 2
	rr := r * r
	if r == 0 {
		setPixel(img, cx, cy, op)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > rr {
				continue
			}
			setPixel(img, cx+dx, cy+dy, op)
		}
	}
}

func setPixel(img *image.RGBA, x, y int, op Op) {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i] = op.Color.R
	img.Pix[i+1] = op.Color.G
	img.Pix[i+2] = op.Color.B
	img.Pix[i+3] = op.Color.A
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

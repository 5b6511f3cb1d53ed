package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"wilderness-editor/pkg/geometry"
)

// fillRect fills the intersection of r and the image with a solid color.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// blendPixel composites c over the existing pixel using c.A as the
// source alpha. The destination stays opaque.
func blendPixel(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if c.A == 0xff {
		img.SetRGBA(x, y, c)
		return
	}

	i := img.PixOffset(x, y)
	a := uint32(c.A)
	inv := 255 - a
	img.Pix[i+0] = uint8((uint32(c.R)*a + uint32(img.Pix[i+0])*inv) / 255)
	img.Pix[i+1] = uint8((uint32(c.G)*a + uint32(img.Pix[i+1])*inv) / 255)
	img.Pix[i+2] = uint8((uint32(c.B)*a + uint32(img.Pix[i+2])*inv) / 255)
	img.Pix[i+3] = 0xff
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, bounds image.Rectangle) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy

	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.Set(x1, y1, c)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawDashedLine draws a Bresenham line with dash pixels on and gap
// pixels off, counted along the rasterized line.
func drawDashedLine(img *image.RGBA, x1, y1, x2, y2, dash, gap int, c color.RGBA, bounds image.Rectangle) {
	if dash <= 0 || gap <= 0 {
		drawLine(img, x1, y1, x2, y2, c, bounds)
		return
	}

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var sx, sy int
	if x1 < x2 {
		sx = 1
	} else {
		sx = -1
	}
	if y1 < y2 {
		sy = 1
	} else {
		sy = -1
	}

	err := dx - dy
	period := dash + gap
	step := 0

	for {
		if step%period < dash &&
			x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.Set(x1, y1, c)
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawThickLine draws a line with the given thickness by stacking
// parallel one-pixel lines along the perpendicular.
func drawThickLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness int, c color.RGBA) {
	bounds := img.Bounds()

	if thickness <= 1 {
		drawLine(img, int(x1), int(y1), int(x2), int(y2), c, bounds)
		return
	}

	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		fillCircle(img, int(x1), int(y1), thickness/2, c)
		return
	}

	// Perpendicular unit vector
	px := -dy / length
	py := dx / length

	halfThick := float64(thickness) / 2
	for t := -halfThick; t <= halfThick; t += 1.0 {
		drawLine(img, int(x1+px*t), int(y1+py*t), int(x2+px*t), int(y2+py*t), c, bounds)
	}
}

// drawThickDashedLine is drawThickLine with a dash pattern.
func drawThickDashedLine(img *image.RGBA, x1, y1, x2, y2 float64, thickness, dash, gap int, c color.RGBA) {
	bounds := img.Bounds()

	if thickness <= 1 {
		drawDashedLine(img, int(x1), int(y1), int(x2), int(y2), dash, gap, c, bounds)
		return
	}

	dx := x2 - x1
	dy := y2 - y1
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		fillCircle(img, int(x1), int(y1), thickness/2, c)
		return
	}

	px := -dy / length
	py := dx / length

	halfThick := float64(thickness) / 2
	for t := -halfThick; t <= halfThick; t += 1.0 {
		drawDashedLine(img, int(x1+px*t), int(y1+py*t), int(x2+px*t), int(y2+py*t), dash, gap, c, bounds)
	}
}

// fillCircle fills a circle with the given color.
func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()

	if r <= 0 {
		if cx >= bounds.Min.X && cx < bounds.Max.X && cy >= bounds.Min.Y && cy < bounds.Max.Y {
			img.Set(cx, cy, c)
		}
		return
	}

	for y := cy - r; y <= cy+r; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

// drawCircle draws a circle outline using Bresenham's algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	bounds := img.Bounds()

	setPixel := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(x, y, c)
		}
	}

	x := r
	y := 0
	err := 0

	for x >= y {
		setPixel(cx+x, cy+y)
		setPixel(cx+y, cy+x)
		setPixel(cx-y, cy+x)
		setPixel(cx-x, cy+y)
		setPixel(cx-x, cy-y)
		setPixel(cx-y, cy-x)
		setPixel(cx+y, cy-x)
		setPixel(cx+x, cy-y)

		y++
		if err <= 0 {
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// fillPolygon fills the even-odd interior of pts, blending c over the
// pixels already there. Vertices are in device pixels.
func fillPolygon(img *image.RGBA, pts []geometry.Point2D, c color.RGBA) {
	if len(pts) < 3 {
		return
	}

	bounds := img.Bounds()
	minY := math.Inf(1)
	maxY := math.Inf(-1)
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	yTop := max(int(math.Floor(minY)), bounds.Min.Y)
	yBot := min(int(math.Ceil(maxY)), bounds.Max.Y-1)

	xs := make([]float64, 0, len(pts))
	for y := yTop; y <= yBot; y++ {
		// Sample the scanline through the pixel center.
		fy := float64(y) + 0.5

		xs = xs[:0]
		j := len(pts) - 1
		for i := range pts {
			a, b := pts[i], pts[j]
			if (a.Y > fy) != (b.Y > fy) {
				xs = append(xs, a.X+(fy-a.Y)/(b.Y-a.Y)*(b.X-a.X))
			}
			j = i
		}
		sort.Float64s(xs)

		for k := 0; k+1 < len(xs); k += 2 {
			x1 := max(int(math.Ceil(xs[k]-0.5)), bounds.Min.X)
			x2 := min(int(math.Floor(xs[k+1]-0.5)), bounds.Max.X-1)
			for x := x1; x <= x2; x++ {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// strokePolyline draws pts as an open line strip.
func strokePolyline(img *image.RGBA, pts []geometry.Point2D, thickness int, c color.RGBA) {
	for i := 0; i < len(pts)-1; i++ {
		drawThickLine(img, pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, thickness, c)
	}
}

// strokePolygon draws pts as a closed loop.
func strokePolygon(img *image.RGBA, pts []geometry.Point2D, thickness int, c color.RGBA) {
	n := len(pts)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		drawThickLine(img, a.X, a.Y, b.X, b.Y, thickness, c)
	}
}

// drawLabel renders s with the built-in 7x13 face, with (x, y) on the
// baseline.
func drawLabel(img *image.RGBA, s string, x, y int, c color.RGBA) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// clipSegment clamps the segment a-b to the rectangle [0,w)x[0,h)
// using the Liang-Barsky parametric test. The boolean is false when
// the segment lies entirely outside.
func clipSegment(a, b geometry.Point2D, w, h float64) (geometry.Point2D, geometry.Point2D, bool) {
	t0, t1 := 0.0, 1.0
	dx := b.X - a.X
	dy := b.Y - a.Y

	edges := [4][2]float64{
		{-dx, a.X},
		{dx, w - 1 - a.X},
		{-dy, a.Y},
		{dy, h - 1 - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	ca := geometry.Point2D{X: a.X + t0*dx, Y: a.Y + t0*dy}
	cb := geometry.Point2D{X: a.X + t1*dx, Y: a.Y + t1*dy}
	return ca, cb, true
}

func round(v float64) int {
	return int(math.Round(v))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

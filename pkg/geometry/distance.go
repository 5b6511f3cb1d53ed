package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DistanceToSegment returns the shortest distance from p to the segment a-b.
// The point is projected onto the segment's supporting line and the projection
// parameter is clamped to [0, 1], so endpoints act as the nearest point beyond
// the segment ends. A zero-length segment degenerates to point distance.
func DistanceToSegment(p, a, b Point2D) float64 {
	pv := r2.Vec{X: p.X, Y: p.Y}
	av := r2.Vec{X: a.X, Y: a.Y}
	bv := r2.Vec{X: b.X, Y: b.Y}

	ab := r2.Sub(bv, av)
	ap := r2.Sub(pv, av)

	len2 := r2.Norm2(ab)
	if len2 == 0 {
		return r2.Norm(ap)
	}

	t := r2.Dot(ap, ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := r2.Add(av, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(pv, closest))
}

// DistanceToPolyline returns the shortest distance from p to any segment of
// the polyline. A polyline with fewer than 2 vertices has no segments and
// yields +Inf, which keeps it out of every tolerance comparison.
func DistanceToPolyline(p Point2D, vertices []Point2D) float64 {
	if len(vertices) < 2 {
		return math.Inf(1)
	}

	best := math.Inf(1)
	for i := 0; i < len(vertices)-1; i++ {
		d := DistanceToSegment(p, vertices[i], vertices[i+1])
		if d < best {
			best = d
		}
	}
	return best
}

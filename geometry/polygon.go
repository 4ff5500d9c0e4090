package geometry

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Polygon is a convex polygon with vertices in counter-clockwise order.
type Polygon []Point

// Area returns the polygon area via the shoelace formula.
func (p Polygon) Area() float32 {
	if len(p) < 3 {
		return 0
	}
	var sum float32
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math32.Abs(sum) / 2
}

// IoU calculates the Intersection over Union between two convex polygons.
//
// The intersection area is computed by clipping p against every edge of o
// (Sutherland-Hodgman), then taking the shoelace area of the clip result.
// The union follows from inclusion-exclusion.
//
// Arguments:
//   - o: The other polygon.
//
// Returns:
//   - The IoU score in [0, 1]. Empty intersections and degenerate unions
//     yield 0, never NaN.
func (p Polygon) IoU(o Polygon) float32 {
	inter := p.intersectionArea(o)
	if inter <= 0 {
		return 0
	}
	union := p.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return min(inter/union, 1)
}

// intersectionArea clips p against each edge of o and returns the area of
// the surviving region. Both polygons must be convex and wound CCW.
func (p Polygon) intersectionArea(o Polygon) float32 {
	if len(p) < 3 || len(o) < 3 {
		return 0
	}

	// Double buffering keeps the clip loop allocation-free after the first
	// two slices; a convex-convex intersection has at most len(p)+len(o)
	// vertices.
	maxV := len(p) + len(o)
	cur := make(Polygon, len(p), maxV)
	copy(cur, p)
	next := make(Polygon, 0, maxV)

	for i := range o {
		if len(cur) < 3 {
			return 0
		}
		a := o[i]
		b := o[(i+1)%len(o)]
		next = next[:0]

		for j := range cur {
			v := cur[j]
			w := cur[(j+1)%len(cur)]
			vIn := inside(a, b, v)
			wIn := inside(a, b, w)
			switch {
			case vIn && wIn:
				next = append(next, w)
			case vIn && !wIn:
				next = append(next, edgeIntersect(a, b, v, w))
			case !vIn && wIn:
				next = append(next, edgeIntersect(a, b, v, w), w)
			}
		}
		cur, next = next, cur
	}

	return cur.Area()
}

// inside reports whether pt lies on or to the left of the directed edge
// a->b (the interior side for a CCW polygon).
func inside(a, b, pt Point) bool {
	return (b.X-a.X)*(pt.Y-a.Y)-(b.Y-a.Y)*(pt.X-a.X) >= 0
}

// edgeIntersect returns the intersection of segment v->w with the infinite
// line through a->b. Callers only invoke it when v and w straddle the line,
// so the denominator is never zero for valid convex input.
func edgeIntersect(a, b, v, w Point) Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	ex, ey := w.X-v.X, w.Y-v.Y
	denom := dx*ey - dy*ex
	if denom == 0 {
		return w
	}
	t := ((a.X-v.X)*dy - (a.Y-v.Y)*dx) / -denom
	return Point{X: v.X + t*ex, Y: v.Y + t*ey}
}

// Validate reports whether the polygon is a well-formed convex polygon:
// at least 3 finite vertices, counter-clockwise winding, and no reflex
// corners. Collinear (zero-cross) corners are tolerated.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return errors.Errorf("polygon needs at least 3 vertices, got %d", len(p))
	}
	for _, v := range p {
		if math32.IsNaN(v.X) || math32.IsInf(v.X, 0) ||
			math32.IsNaN(v.Y) || math32.IsInf(v.Y, 0) {
			return errors.New("polygon has non-finite vertex")
		}
	}
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		c := p[(i+2)%len(p)]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross < 0 {
			return errors.Errorf("polygon is not convex CCW at vertex %d", (i+1)%len(p))
		}
	}
	if p.Area() <= 0 {
		return errors.New("polygon has zero area")
	}
	return nil
}

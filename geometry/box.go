package geometry

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Box is an axis-aligned bounding box with float32 coordinates.
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner.
type Box struct {
	X1, Y1, X2, Y2 float32
}

// String formats the box corners for display.
func (b Box) String() string {
	return fmt.Sprintf("(%f, %f), (%f, %f)", b.X1, b.Y1, b.X2, b.Y2)
}

// Area returns the area of the box. Degenerate boxes have area 0.
func (b Box) Area() float32 {
	if b.X2 <= b.X1 || b.Y2 <= b.Y1 {
		return 0
	}
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// Intersection calculates the overlapping area between two boxes.
//
// The intersection corners are found by taking the maximum of the starting
// coordinates and the minimum of the ending coordinates. If the resulting
// width or height is zero or negative, the boxes do not overlap.
//
// Arguments:
//   - o: The other box.
//
// Returns:
//   - The overlapping area, 0 if the boxes are disjoint.
func (b Box) Intersection(o Box) float32 {
	ix1 := max(b.X1, o.X1)
	iy1 := max(b.Y1, o.Y1)
	ix2 := min(b.X2, o.X2)
	iy2 := min(b.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0
	}
	return interW * interH
}

// Union calculates the total area covered by both boxes combined, using
// inclusion-exclusion: Area(A) + Area(B) - Intersection(A, B).
//
// Arguments:
//   - o: The other box.
//
// Returns:
//   - The union area.
func (b Box) Union(o Box) float32 {
	return b.Area() + o.Area() - b.Intersection(o)
}

// IoU calculates the Intersection over Union between two boxes.
//
// IoU is the fundamental overlap metric driving suppression: a value of 1.0
// means the boxes are identical, 0.0 means they do not overlap at all.
//
// Arguments:
//   - o: The other box.
//
// Returns:
//   - The IoU score in [0, 1]. Degenerate boxes yield 0, never NaN.
func (b Box) IoU(o Box) float32 {
	inter := b.Intersection(o)
	if inter <= 0 {
		return 0
	}
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return min(inter/union, 1)
}

// Validate reports whether the box is well-formed: finite coordinates and
// non-inverted corners. Zero-width or zero-height boxes are allowed; they
// simply never overlap anything.
func (b Box) Validate() error {
	for _, v := range [4]float32{b.X1, b.Y1, b.X2, b.Y2} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return errors.Errorf("box has non-finite coordinate: %s", b)
		}
	}
	if b.X2 < b.X1 || b.Y2 < b.Y1 {
		return errors.Errorf("box has inverted corners: %s", b)
	}
	return nil
}

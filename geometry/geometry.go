// Package geometry - shape representations and IoU computation for
// detection post-processing.
//
// The suppression kernels treat this package as their geometry capability:
// shapes are validated once at ingestion, and the per-pair IoU methods are
// pure functions that never fail on validated input.
package geometry

import "fmt"

// Kind enumerates the supported shape representations.
type Kind int

const (
	// KindAxisAlignedBox is a box described by two corners, axis-aligned.
	KindAxisAlignedBox Kind = iota
	// KindConvexPolygon is a convex polygon with counter-clockwise vertices.
	KindConvexPolygon
)

// String returns a human-readable name for the shape kind.
func (k Kind) String() string {
	switch k {
	case KindAxisAlignedBox:
		return "axis-aligned-box"
	case KindConvexPolygon:
		return "convex-polygon"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Point is a 2D coordinate.
type Point struct {
	X, Y float32
}

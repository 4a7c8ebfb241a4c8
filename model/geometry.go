package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Origin identifies where a producer puts the Y=0 line of its coordinate
// system. Geometry never depends on it; only "top-to-bottom" ordering does.
type Origin int

const (
	// TopLeft is the image convention: Y grows downward.
	TopLeft Origin = iota
	// BottomLeft is the PDF page convention: Y grows upward.
	BottomLeft
)

// String returns a string representation of the origin
func (o Origin) String() string {
	if o == BottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// TopKey returns a value that is smaller the nearer b's top edge is to the
// top of the page
func (o Origin) TopKey(b BBox) float64 {
	if o == BottomLeft {
		return -b.MaxY()
	}
	return b.MinY()
}

// BBox is an axis-aligned box given by its four edges.
//
// No ordering is enforced between L and R or between T and B: detectors and
// OCR engines disagree on which way the Y axis points, so every metric below
// works on absolute extents. A BBox is a value; methods never modify the
// receiver.
type BBox struct {
	L float64 `json:"l"`
	T float64 `json:"t"`
	R float64 `json:"r"`
	B float64 `json:"b"`
}

// NewBBox creates a bounding box from its left, top, right and bottom edges
func NewBBox(l, t, r, b float64) BBox {
	return BBox{L: l, T: t, R: r, B: b}
}

// NewBBoxFromPoints creates a bounding box spanning two corner points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	return BBox{
		L: math.Min(p1.X, p2.X),
		T: math.Min(p1.Y, p2.Y),
		R: math.Max(p1.X, p2.X),
		B: math.Max(p1.Y, p2.Y),
	}
}

// MinX returns the smaller horizontal edge
func (b BBox) MinX() float64 { return math.Min(b.L, b.R) }

// MaxX returns the larger horizontal edge
func (b BBox) MaxX() float64 { return math.Max(b.L, b.R) }

// MinY returns the smaller vertical edge
func (b BBox) MinY() float64 { return math.Min(b.T, b.B) }

// MaxY returns the larger vertical edge
func (b BBox) MaxY() float64 { return math.Max(b.T, b.B) }

// Width returns the absolute horizontal extent
func (b BBox) Width() float64 { return math.Abs(b.R - b.L) }

// Height returns the absolute vertical extent
func (b BBox) Height() float64 { return math.Abs(b.B - b.T) }

// Area returns |R-L| * |B-T|. It is never negative.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// IsDegenerate reports whether the box has zero area
func (b BBox) IsDegenerate() bool {
	return b.Area() == 0
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: (b.L + b.R) / 2, Y: (b.T + b.B) / 2}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX() && p.X <= b.MaxX() &&
		p.Y >= b.MinY() && p.Y <= b.MaxY()
}

// HorizontalOverlap returns the length of the shared horizontal range,
// clamped to zero.
func (b BBox) HorizontalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.MaxX(), other.MaxX())-math.Max(b.MinX(), other.MinX()))
}

// VerticalOverlap returns the length of the shared vertical range,
// clamped to zero.
func (b BBox) VerticalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.MaxY(), other.MaxY())-math.Max(b.MinY(), other.MinY()))
}

// IntersectionArea returns the area of the overlap of two boxes, or 0 when
// they do not overlap.
func (b BBox) IntersectionArea(other BBox) float64 {
	return b.HorizontalOverlap(other) * b.VerticalOverlap(other)
}

// IntersectionOverSelf returns the fraction of b's area that lies inside
// other. A zero-area receiver yields 0.
func (b BBox) IntersectionOverSelf(other BBox) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	return b.IntersectionArea(other) / area
}

// IoU returns the intersection over union of two boxes, or 0 when the union
// is empty.
func (b BBox) IoU(other BBox) float64 {
	inter := b.IntersectionArea(other)
	union := b.Area() + other.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Union returns the smallest box containing both boxes. The result keeps the
// receiver's axis orientation: if b has T > B (Y up), so does the union.
func (b BBox) Union(other BBox) BBox {
	minX := math.Min(b.MinX(), other.MinX())
	maxX := math.Max(b.MaxX(), other.MaxX())
	minY := math.Min(b.MinY(), other.MinY())
	maxY := math.Max(b.MaxY(), other.MaxY())

	u := BBox{L: minX, T: minY, R: maxX, B: maxY}
	if b.L > b.R {
		u.L, u.R = maxX, minX
	}
	if b.T > b.B {
		u.T, u.B = maxY, minY
	}
	return u
}

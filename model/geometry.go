package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedGeometry is returned when a rectangle's corners are out of
// order or a dimension is negative. Malformed geometry is rejected, never
// silently repaired.
var ErrMalformedGeometry = errors.New("malformed geometry")

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle given by its corners, with the origin
// at the top-left of the page (Y grows downward, the extraction backend's
// convention). A valid Rect satisfies X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect creates a rectangle from its corners. It returns
// ErrMalformedGeometry if the corners are out of order.
func NewRect(x0, y0, x1, y1 float64) (Rect, error) {
	r := Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
	if err := r.Validate(); err != nil {
		return Rect{}, err
	}
	return r, nil
}

// Validate reports whether the rectangle's corners are ordered.
func (r Rect) Validate() error {
	if r.X1 < r.X0 || r.Y1 < r.Y0 {
		return fmt.Errorf("%w: rect [%g %g %g %g]", ErrMalformedGeometry, r.X0, r.Y0, r.X1, r.Y1)
	}
	return nil
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Top returns the top edge Y coordinate (smaller Y is higher on the page).
func (r Rect) Top() float64 {
	return r.Y0
}

// Bottom returns the bottom edge Y coordinate.
func (r Rect) Bottom() float64 {
	return r.Y1
}

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Intersects checks if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 &&
		r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// VerticalOverlap returns the fraction of the shorter rectangle's height
// shared with other, between 0 and 1. Two spans on the same typographic
// line typically overlap by well over half their height.
func (r Rect) VerticalOverlap(other Rect) float64 {
	top := math.Max(r.Y0, other.Y0)
	bottom := math.Min(r.Y1, other.Y1)
	if bottom <= top {
		return 0
	}
	minHeight := math.Min(r.Height(), other.Height())
	if minHeight <= 0 {
		return 0
	}
	return (bottom - top) / minHeight
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Round returns the rectangle with all corners rounded to 3 decimals.
func (r Rect) Round() Rect {
	return Rect{
		X0: Round3(r.X0),
		Y0: Round3(r.Y0),
		X1: Round3(r.X1),
		Y1: Round3(r.Y1),
	}
}

// Round3 rounds v to 3 decimal places. It is idempotent: applying it to an
// already-rounded value is a no-op. Every value that participates in
// interchange or in the fit search goes through this so results do not
// depend on host floating point representation.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

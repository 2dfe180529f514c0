// Package core defines the data model shared by the packed-tree writer,
// reader, and the Barnes-Hut force kernel: points, bodies, mass-points, and
// the axis-aligned boxes used to split space into quadrants.
package core

// Point2D is a pair of 64-bit floats.
type Point2D struct {
	X, Y float64
}

// Body is a simulated particle: position, mass, and velocity. Masses
// default to 1.0 for bodies constructed directly from input points.
type Body struct {
	X, Y   float64
	Mass   float64
	VX, VY float64
}

// NewBody constructs a unit-mass, stationary body at the given point.
func NewBody(p Point2D) Body {
	return Body{X: p.X, Y: p.Y, Mass: 1.0}
}

// MassPoint is a body reduced to (position, mass); it is the unit the
// tree packer aggregates into centroids.
type MassPoint struct {
	X, Y, Mass float64
}

// MassPointOf projects a Body down to its MassPoint.
func MassPointOf(b Body) MassPoint {
	return MassPoint{X: b.X, Y: b.Y, Mass: b.Mass}
}

// Box is an axis-aligned rectangle (llx, lly, rux, ruy): lower-left and
// upper-right corners.
type Box struct {
	LLX, LLY, RUX, RUY float64
}

// Mid returns the midpoint of the box, the split point for its four
// quadrants.
func (b Box) Mid() (mx, my float64) {
	return (b.LLX + b.RUX) / 2.0, (b.LLY + b.RUY) / 2.0
}

// Quadrants splits the box at its midpoint into the four quadrants in
// the fixed order (ll, ul, ur, lr):
//
//	ll: (llx, lly) - (mx,  my)
//	ul: (llx, my)  - (mx,  ruy)
//	ur: (mx,  my)  - (rux, ruy)
//	lr: (mx,  lly) - (rux, my)
func (b Box) Quadrants() [4]Box {
	mx, my := b.Mid()
	return [4]Box{
		{LLX: b.LLX, LLY: b.LLY, RUX: mx, RUY: my},
		{LLX: b.LLX, LLY: my, RUX: mx, RUY: b.RUY},
		{LLX: mx, LLY: my, RUX: b.RUX, RUY: b.RUY},
		{LLX: mx, LLY: b.LLY, RUX: b.RUX, RUY: my},
	}
}

// Contains reports whether a mass-point lies inside the box under the
// (left-open, right-closed, bottom-open, top-closed) convention: a point
// on the lower or left edge belongs to the neighboring quadrant, a point
// on the upper or right edge belongs to this one.
func (b Box) Contains(p MassPoint) bool {
	return p.X > b.LLX && p.Y > b.LLY && p.X <= b.RUX && p.Y <= b.RUY
}

// Centroid computes the mass-weighted sum (Sigma x*m, Sigma y*m, Sigma m)
// over a set of mass-points. This is a sum, not a mean: the encoded
// packed-tree convention and the force kernel both consume it unaveraged.
func Centroid(pts []MassPoint) MassPoint {
	var c MassPoint
	for _, p := range pts {
		c.X += p.X * p.Mass
		c.Y += p.Y * p.Mass
		c.Mass += p.Mass
	}
	return c
}

// Partition splits pts into the four quadrants of box, in fixed
// (ll, ul, ur, lr) order. Every point that box itself contains falls in
// exactly one quadrant; a point outside box, or on its lower or left
// edge, is placed in none.
func Partition(box Box, pts []MassPoint) [4][]MassPoint {
	quads := box.Quadrants()
	var out [4][]MassPoint
	for _, p := range pts {
		for q := 0; q < 4; q++ {
			if quads[q].Contains(p) {
				out[q] = append(out[q], p)
				break
			}
		}
	}
	return out
}

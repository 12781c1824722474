package model

import (
	"errors"
	"fmt"
	"math"
)

// MinPolygonVertices is the smallest outline a polygon spot can carry.
const MinPolygonVertices = 3

// ErrTooFewVertices is returned when an outline has fewer than
// MinPolygonVertices vertices.
var ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")

// Vertex is one outline point in physical units.
type Vertex struct {
	X, Y float64
}

// Polygon is an ordered, implicitly closed outline.
type Polygon struct {
	Vertices []Vertex
}

// NewPolygon builds a polygon from parallel coordinate slices.
func NewPolygon(xs, ys []float64) (*Polygon, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("vertex coordinate mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < MinPolygonVertices {
		return nil, fmt.Errorf("%d vertices: %w", len(xs), ErrTooFewVertices)
	}
	p := &Polygon{Vertices: make([]Vertex, len(xs))}
	for i := range xs {
		p.Vertices[i] = Vertex{X: xs[i], Y: ys[i]}
	}
	return p, nil
}

// SignedArea returns the shoelace area; positive for counter-clockwise
// outlines.
func (p *Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	a := 0.0
	for i := 0; i < n; i++ {
		v0 := p.Vertices[i]
		v1 := p.Vertices[(i+1)%n]
		a += v0.X*v1.Y - v1.X*v0.Y
	}
	return a / 2
}

// Centroid returns the area-weighted centre of the outline. Degenerate
// (zero-area) outlines fall back to the vertex mean.
func (p *Polygon) Centroid() (x, y float64) {
	n := len(p.Vertices)
	if n == 0 {
		return 0, 0
	}
	a := p.SignedArea()
	if a == 0 {
		for _, v := range p.Vertices {
			x += v.X
			y += v.Y
		}
		return x / float64(n), y / float64(n)
	}
	for i := 0; i < n; i++ {
		v0 := p.Vertices[i]
		v1 := p.Vertices[(i+1)%n]
		cross := v0.X*v1.Y - v1.X*v0.Y
		x += (v0.X + v1.X) * cross
		y += (v0.Y + v1.Y) * cross
	}
	return x / (6 * a), y / (6 * a)
}

// EquivalentRadius is the radius of the disc with the same area.
func (p *Polygon) EquivalentRadius() float64 {
	return math.Sqrt(math.Abs(p.SignedArea()) / math.Pi)
}

// NewPolygonSpot creates an auto-identity spot backed by p, centred on the
// polygon centroid in the z = 0 plane.
func NewPolygonSpot(p *Polygon, quality float64) *Spot {
	x, y := p.Centroid()
	s := NewSpot(x, y, 0, p.EquivalentRadius(), quality, "")
	s.Polygon = p
	return s
}

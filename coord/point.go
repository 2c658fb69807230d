// Package coord holds the 3D geometry shared by the post, the mesh
// leveler and the program checker.
package coord

import (
	"math"
)

// Axis indexes the components of a Point.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Point is a position or offset in millimeters or inches, depending on
// the job.
type Point struct{ X, Y, Z float64 }

// Get returns component a of p.
func (p Point) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	}
	return p.Z
}

// With returns p with component a set to v.
func (p Point) With(a Axis, v float64) Point {
	switch a {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

func (p Point) Cross(op Point) Point {
	return Point{
		p.Y*op.Z - p.Z*op.Y,
		p.Z*op.X - p.X*op.Z,
		p.X*op.Y - p.Y*op.X,
	}
}
func (p Point) Dot(op Point) float64 {
	return p.X*op.X + p.Y*op.Y + p.Z*op.Z
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	return p
}

// Split returns n evenly spaced points from p to target. The last point
// is target itself.
func (p Point) Split(target Point, n int) []Point {
	step := target.Sub(p)
	step.X /= float64(n)
	step.Y /= float64(n)
	step.Z /= float64(n)

	res := make([]Point, n)
	for i := range res {
		res[i].X = p.X + step.X*float64(i+1)
		res[i].Y = p.Y + step.Y*float64(i+1)
		res[i].Z = p.Z + step.Z*float64(i+1)
	}
	res[n-1] = target

	return res
}

// DistanceXY will return the 2D distance to p from (x,y).
func (p Point) DistanceXY(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}

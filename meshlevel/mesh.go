package meshlevel

import (
	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/milopost/coord"
	"github.com/pkg/errors"
)

// Mesh is a height map of the stock surface, triangulated from probed
// points. Heights between points are read off the plane of the enclosing
// triangle.
type Mesh struct {
	lo, hi    coord.Point
	triangles []coord.Triangle
}

// NewMesh triangulates points by their XY position. Each XY position may
// be probed only once.
func NewMesh(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, errors.Errorf("need at least 3 probe points for a mesh, got %d", len(points))
	}

	seen := make(map[[2]float64]int, len(points))
	flat := make([]delaunay.Point, len(points))
	lo, hi := points[0], points[0]
	for i, p := range points {
		key := [2]float64{p.X, p.Y}
		if j, ok := seen[key]; ok {
			return nil, errors.Errorf("probe points %d and %d are both at X%g Y%g", j, i, p.X, p.Y)
		}
		seen[key] = i

		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		flat[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	tri, err := delaunay.Triangulate(flat)
	if err != nil {
		return nil, errors.Wrap(err, "triangulate probe points")
	}

	m := &Mesh{
		lo:        coord.Point{X: lo.X - coord.Epsilon, Y: lo.Y - coord.Epsilon},
		hi:        coord.Point{X: hi.X + coord.Epsilon, Y: hi.Y + coord.Epsilon},
		triangles: make([]coord.Triangle, 0, len(tri.Triangles)/3),
	}
	// Triangles holds indexes into the input, three per triangle.
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		m.triangles = append(m.triangles, coord.Triangle{
			A: points[tri.Triangles[i]],
			B: points[tri.Triangles[i+1]],
			C: points[tri.Triangles[i+2]],
		})
	}

	return m, nil
}

// OffsetZ returns the surface height at x, y. It reports false outside
// the probed area.
func (m *Mesh) OffsetZ(x, y float64) (bool, float64) {
	if x < m.lo.X || m.hi.X < x || y < m.lo.Y || m.hi.Y < y {
		return false, 0
	}
	for _, t := range m.triangles {
		if t.ContainsXY(x, y) {
			return true, t.Z(x, y)
		}
	}
	return false, 0
}

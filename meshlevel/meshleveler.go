package meshlevel

import (
	"math"

	"github.com/mastercactapus/milopost/coord"
	"github.com/mastercactapus/milopost/post"
	"github.com/pkg/errors"
)

// ZOffsetter reports the surface height at x, y, if known.
type ZOffsetter interface {
	OffsetZ(x, y float64) (bool, float64)
}

type flatSurface struct{}

func (flatSurface) OffsetZ(x, y float64) (bool, float64) { return false, 0 }

// OffsetFrom returns a copy of points with heights relative to z, usually
// the height of the probe taken at the work zero.
func OffsetFrom(z float64, points []coord.Point) []coord.Point {
	res := make([]coord.Point, len(points))
	for i, p := range points {
		p.Z -= z
		res[i] = p
	}
	return res
}

// Leveler adjusts the Z of job moves to follow a probed surface.
type Leveler struct {
	granularity float64
	offsetter   ZOffsetter
}

type Config struct {
	ZOffsetter ZOffsetter

	// Granularity is the longest XY distance a feed move may cover before
	// it is split. Zero disables splitting.
	Granularity float64
}

func New(cfg Config) *Leveler {
	l := &Leveler{
		granularity: cfg.Granularity,
		offsetter:   cfg.ZOffsetter,
	}
	if l.offsetter == nil {
		l.offsetter = flatSurface{}
	}
	return l
}

func (l *Leveler) offset(p coord.Point) coord.Point {
	ok, z := l.offsetter.OffsetZ(p.X, p.Y)
	if ok {
		p.Z += z
	}
	return p
}

// LevelJob levels every section of job in place.
func (l *Leveler) LevelJob(job *post.Job) error {
	for i := range job.Sections {
		rec, err := l.Level(job.Sections[i].Records)
		if err != nil {
			return errors.Wrapf(err, "section %d", i)
		}
		job.Sections[i].Records = rec
	}
	return nil
}

// Level returns a copy of records with every target offset by the surface
// height under it. Linear moves longer than the granularity are split so
// the tool follows the surface between the end points.
func (l *Leveler) Level(records []post.Record) ([]post.Record, error) {
	res := make([]post.Record, 0, len(records))

	var pos coord.Point
	var known bool
	for i, r := range records {
		if r.Kind == post.Comment {
			res = append(res, r)
			continue
		}
		if r.Kind.IsArc() && r.Plane != post.PlaneXY {
			return nil, errors.Errorf("record %d: only XY arcs can be leveled", i)
		}

		if r.Kind == post.Linear && known && l.granularity > 0 {
			dist := pos.DistanceXY(r.Target.X, r.Target.Y)
			if dist > l.granularity {
				n := int(math.Ceil(dist / l.granularity))
				for _, p := range pos.Split(r.Target, n) {
					seg := r
					seg.Target = l.offset(p)
					res = append(res, seg)
				}
				pos = r.Target
				continue
			}
		}

		adj := r
		adj.Target = l.offset(r.Target)
		res = append(res, adj)
		pos = r.Target
		known = true
	}

	return res, nil
}

// Package jobfile reads CAM job documents and probe point lists from YAML.
package jobfile

import (
	"io"
	"math"
	"os"
	"strings"

	"github.com/mastercactapus/milopost/coord"
	"github.com/mastercactapus/milopost/gcode"
	"github.com/mastercactapus/milopost/post"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name    string `yaml:"name"`
	Comment string `yaml:"comment"`
	Unit    string `yaml:"unit"`

	Machine  machineDoc   `yaml:"machine"`
	Tools    []toolDoc    `yaml:"tools"`
	Sections []sectionDoc `yaml:"sections"`
}

type machineDoc struct {
	Vendor      string  `yaml:"vendor"`
	Model       string  `yaml:"model"`
	Description string  `yaml:"description"`
	Width       float64 `yaml:"width"`
	Depth       float64 `yaml:"depth"`
	Height      float64 `yaml:"height"`
}

type toolDoc struct {
	Number       int     `yaml:"number"`
	Diameter     float64 `yaml:"diameter"`
	CornerRadius float64 `yaml:"corner_radius"`
	Type         string  `yaml:"type"`
}

type sectionDoc struct {
	Name       string `yaml:"name"`
	Comment    string `yaml:"comment"`
	WorkOffset int    `yaml:"work_offset"`
	Tool       int    `yaml:"tool"`

	SpindleSpeed float64 `yaml:"spindle_speed"`
	SpindleCCW   bool    `yaml:"spindle_ccw"`

	HomeBeforeOp           *bool `yaml:"home_before_op"`
	ProbeWorkpieceBeforeOp *bool `yaml:"probe_workpiece_before_op"`

	Records []recordDoc `yaml:"records"`
}

type recordDoc struct {
	Kind   string    `yaml:"kind"`
	To     []float64 `yaml:"to"`
	Center []float64 `yaml:"center"`
	Plane  string    `yaml:"plane"`
	Feed   float64   `yaml:"feed"`
	Text   string    `yaml:"text"`
}

var recordKinds = map[string]post.RecordKind{
	"rapid":   post.Rapid,
	"linear":  post.Linear,
	"cw":      post.ArcCW,
	"ccw":     post.ArcCCW,
	"comment": post.Comment,
}

var planes = map[string]post.Plane{
	"":   post.PlaneXY,
	"xy": post.PlaneXY,
	"zx": post.PlaneZX,
	"yz": post.PlaneYZ,
}

// Load reads the job document at path.
func Load(path string) (*post.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open job")
	}
	defer f.Close()

	job, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return job, nil
}

// Decode reads a job document. Unknown fields, non-finite numbers and
// numbers beyond maxValue are rejected.
func Decode(r io.Reader) (*post.Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode job")
	}

	return doc.job()
}

func (doc document) job() (*post.Job, error) {
	job := &post.Job{
		Name:    doc.Name,
		Comment: doc.Comment,
		Machine: post.Machine{
			Vendor:      doc.Machine.Vendor,
			Model:       doc.Machine.Model,
			Description: doc.Machine.Description,
			Width:       doc.Machine.Width,
			Depth:       doc.Machine.Depth,
			Height:      doc.Machine.Height,
		},
	}

	switch strings.ToLower(doc.Unit) {
	case "", "mm":
		job.Unit = gcode.Millimeters
	case "in", "inch":
		job.Unit = gcode.Inches
	default:
		return nil, errors.Errorf("unknown unit %q", doc.Unit)
	}

	if !inRange(doc.Machine.Width, doc.Machine.Depth, doc.Machine.Height) {
		return nil, errors.New("machine dimensions must be finite and at most 1e6")
	}

	tools := make(post.Tools, 0, len(doc.Tools))
	for i, t := range doc.Tools {
		if !inRange(t.Diameter, t.CornerRadius) {
			return nil, errors.Errorf("tool %d: diameter and corner radius must be finite and at most 1e6", i)
		}
		tools = append(tools, post.Tool{
			Number:       t.Number,
			Diameter:     t.Diameter,
			CornerRadius: t.CornerRadius,
			Type:         t.Type,
		})
	}
	job.Tools = tools

	for i, s := range doc.Sections {
		sec, err := s.section()
		if err != nil {
			return nil, errors.Wrapf(err, "section %d", i)
		}
		job.Sections = append(job.Sections, sec)
	}

	return job, nil
}

func (s sectionDoc) section() (post.Section, error) {
	sec := post.Section{
		Name:                   s.Name,
		Comment:                s.Comment,
		WorkOffset:             s.WorkOffset,
		Tool:                   s.Tool,
		SpindleSpeed:           s.SpindleSpeed,
		SpindleCCW:             s.SpindleCCW,
		HomeBeforeOp:           s.HomeBeforeOp,
		ProbeWorkpieceBeforeOp: s.ProbeWorkpieceBeforeOp,
		Records:                make([]post.Record, 0, len(s.Records)),
	}
	if !inRange(s.SpindleSpeed) || s.SpindleSpeed < 0 {
		return sec, errors.Errorf("invalid spindle speed %v", s.SpindleSpeed)
	}

	for i, r := range s.Records {
		rec, err := r.record()
		if err != nil {
			return sec, errors.Wrapf(err, "record %d", i)
		}
		sec.Records = append(sec.Records, rec)
	}
	return sec, nil
}

func (r recordDoc) record() (post.Record, error) {
	var rec post.Record

	kind, ok := recordKinds[strings.ToLower(r.Kind)]
	if !ok {
		return rec, errors.Errorf("unknown record kind %q", r.Kind)
	}
	rec.Kind = kind

	if kind == post.Comment {
		rec.Text = r.Text
		return rec, nil
	}

	var err error
	rec.Target, err = point("to", r.To)
	if err != nil {
		return rec, err
	}

	if kind == post.Linear || kind.IsArc() {
		if !inRange(r.Feed) || r.Feed <= 0 {
			return rec, errors.Errorf("%s move needs a positive feed", kind)
		}
		rec.Feed = r.Feed
	}

	if kind.IsArc() {
		rec.Center, err = point("center", r.Center)
		if err != nil {
			return rec, err
		}
		rec.Plane, ok = planes[strings.ToLower(r.Plane)]
		if !ok {
			return rec, errors.Errorf("unknown plane %q", r.Plane)
		}
	}

	return rec, nil
}

func point(name string, v []float64) (coord.Point, error) {
	if len(v) != 3 {
		return coord.Point{}, errors.Errorf("%s needs 3 values, got %d", name, len(v))
	}
	if !inRange(v...) {
		return coord.Point{}, errors.Errorf("%s must be finite and at most 1e6", name)
	}
	return coord.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

// maxValue bounds every number in a job. It is far beyond any machine
// travel, feed or spindle speed and keeps values formattable at the
// precision of the output words.
const maxValue = 1e6

// inRange reports whether every value is finite and within maxValue.
func inRange(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxValue {
			return false
		}
	}
	return true
}

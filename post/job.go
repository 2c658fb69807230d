package post

import (
	"github.com/mastercactapus/milopost/coord"
	"github.com/mastercactapus/milopost/gcode"
)

// Job is everything the CAM side hands to the post.
type Job struct {
	Name    string
	Comment string
	Unit    gcode.Unit

	Machine  Machine
	Tools    ToolTable
	Sections []Section
}

// Machine describes the target machine for the header.
type Machine struct {
	Vendor      string
	Model       string
	Description string

	Width, Depth, Height float64
}

// Tool is one entry of the tool table.
type Tool struct {
	Number       int
	Diameter     float64
	CornerRadius float64
	Type         string
}

// ToolTable enumerates the tools used by a job.
type ToolTable interface {
	NumTools() int
	Tool(i int) Tool
}

// Tools is a ToolTable backed by a slice.
type Tools []Tool

func (t Tools) NumTools() int   { return len(t) }
func (t Tools) Tool(i int) Tool { return t[i] }

// Section is one CAM operation: a tool, a work offset and its moves.
type Section struct {
	Name    string
	Comment string

	// WorkOffset selects G54 (1) through G59.3 (9). Zero means machine
	// coordinates and is rejected.
	WorkOffset int
	Tool       int

	SpindleSpeed float64
	SpindleCCW   bool

	// Overrides for Options.HomeBeforeOp and Options.ProbeWorkpieceBeforeOp.
	HomeBeforeOp           *bool
	ProbeWorkpieceBeforeOp *bool

	Records []Record
}

// RecordKind identifies what a Record asks for.
type RecordKind int

const (
	Rapid RecordKind = iota
	Linear
	ArcCW
	ArcCCW
	Comment
)

func (k RecordKind) String() string {
	switch k {
	case Rapid:
		return "rapid"
	case Linear:
		return "linear"
	case ArcCW:
		return "cw"
	case ArcCCW:
		return "ccw"
	case Comment:
		return "comment"
	}
	return "unknown"
}

// IsArc reports whether k is a circular move.
func (k RecordKind) IsArc() bool { return k == ArcCW || k == ArcCCW }

// Plane is the principal plane of a circular move.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneZX
	PlaneYZ
)

// Code returns the plane selection code (G17, G18, G19).
func (p Plane) Code() (float64, bool) {
	switch p {
	case PlaneXY:
		return 17, true
	case PlaneZX:
		return 18, true
	case PlaneYZ:
		return 19, true
	}
	return 0, false
}

// Record is one abstract command of a section.
type Record struct {
	Kind RecordKind

	Target coord.Point

	// Center holds the I/J/K offsets from the start point to the arc center.
	Center coord.Point
	Plane  Plane

	Feed float64
	Text string
}

// Package vm simulates emitted programs to check them before they reach
// the controller.
package vm

import (
	"io"

	"github.com/mastercactapus/milopost/coord"
	"github.com/mastercactapus/milopost/gcode"
	"github.com/pkg/errors"
)

// Bounds is the box covered by the tool in work coordinates.
type Bounds struct {
	Min, Max coord.Point

	set [3]bool
}

// Valid reports whether every axis was moved at least once.
func (b Bounds) Valid() bool { return b.set[0] && b.set[1] && b.set[2] }

func (b *Bounds) add(a coord.Axis, v float64) {
	if !b.set[a] {
		b.Min = b.Min.With(a, v)
		b.Max = b.Max.With(a, v)
		b.set[a] = true
		return
	}
	if v < b.Min.Get(a) {
		b.Min = b.Min.With(a, v)
	}
	if v > b.Max.Get(a) {
		b.Max = b.Max.With(a, v)
	}
}

func axisOf(w byte) coord.Axis {
	switch w {
	case 'X':
		return coord.AxisX
	case 'Y':
		return coord.AxisY
	}
	return coord.AxisZ
}

// Machine tracks modal state and the tool position of a program.
type Machine struct {
	pos   coord.Point
	known [3]bool

	modal [256]float64

	bounds Bounds
	moves  int
	tools  []int
}

// NewMachine returns a Machine in the controller's power-on state.
func NewMachine() *Machine {
	m := &Machine{}

	// using RepRapFirmware defaults
	m.modal[gcode.ModalGroupMotion] = 0
	m.modal[gcode.ModalGroupCoordinateSystem] = 54
	m.modal[gcode.ModalGroupPlaneSelection] = 17
	m.modal[gcode.ModalGroupDistanceMode] = 90
	m.modal[gcode.ModalGroupFeedRateMode] = 94
	m.modal[gcode.ModalGroupUnits] = 21
	m.modal[gcode.ModalGroupSpindle] = 5

	return m
}

func (m Machine) Inches() bool         { return m.modal[gcode.ModalGroupUnits] == 20 }
func (m Machine) RelativeMotion() bool { return m.modal[gcode.ModalGroupDistanceMode] == 91 }

// Modal returns the active code of group g.
func (m Machine) Modal(g gcode.ModalGroup) float64 { return m.modal[g] }

// WPos returns the work position in millimeters. It reports false until
// every axis has a known position.
func (m Machine) WPos() (coord.Point, bool) {
	return m.pos, m.known[0] && m.known[1] && m.known[2]
}

func (m Machine) Bounds() Bounds { return m.bounds }
func (m Machine) Moves() int     { return m.moves }

// Tools returns the tools selected by the program, in order.
func (m Machine) Tools() []int { return m.tools }

func isSupported(g gcode.Word) bool {
	if g.IsAxis() || g.IsArcOffset() {
		return true
	}

	switch g.W {
	case 'G':
		switch g.Arg {
		case 0, 1, 2, 3, 17, 18, 19, 20, 21, 27, 28, 37, 90, 91, 93, 94, 6000,
			54, 55, 56, 57, 58, 59, 59.1, 59.2, 59.3:
			return true
		}
	case 'M':
		switch g.Arg {
		case 3, 4, 5, 291:
			return true
		}
	case 'F', 'S', 'T', 'P', 'R':
		return true
	}

	return false
}

// forgetPosition is used after anything that moves the machine in ways
// the program does not describe.
func (m *Machine) forgetPosition() {
	m.known = [3]bool{}
}

func (m *Machine) Run(b gcode.Block) error {
	err := b.Validate()
	if err != nil {
		return err
	}
	for _, g := range b {
		if !isSupported(g) {
			return errors.New("unsupported code: " + g.String())
		}
		mg := g.ModalGroup()
		if mg == gcode.ModalGroupCoordinateSystem && m.modal[mg] != g.Arg {
			m.forgetPosition()
		}
		if mg != gcode.ModalGroupNone && mg != gcode.ModalGroupNonModal {
			m.modal[mg] = g.Arg
		}
		if mg == gcode.ModalGroupNonModal {
			m.forgetPosition()
		}
	}
	if ok, t := b.Arg('T'); ok {
		m.tools = append(m.tools, int(t))
		m.forgetPosition()
	}

	if !b.HasAxis() {
		return nil
	}

	motion := m.modal[gcode.ModalGroupMotion]
	if motion == 2 || motion == 3 {
		var hasOffset bool
		for _, g := range b {
			hasOffset = hasOffset || g.IsArcOffset()
		}
		if !hasOffset {
			return errors.New("arc without center offset: " + b.String())
		}
	}

	mul := 1.0
	if m.Inches() {
		mul = 25.4
	}
	for _, g := range b {
		if !g.IsAxis() {
			continue
		}
		a := axisOf(g.W)
		v := g.Arg * mul
		if m.RelativeMotion() {
			if !m.known[a] {
				continue
			}
			v += m.pos.Get(a)
		}
		m.pos = m.pos.With(a, v)
		m.known[a] = true
		m.bounds.add(a, v)
	}
	m.moves++

	return nil
}

// Report summarizes a checked program.
type Report struct {
	Blocks int
	Moves  int
	Bounds Bounds
	Tools  []int
}

// Check runs every block of r through a new Machine. Errors name the
// source line when r tracks one, like a gcode.Parser, and the block
// number otherwise.
func Check(r gcode.Reader) (*Report, error) {
	m := NewMachine()
	var n int
	for {
		b, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		n++
		err = m.Run(b)
		if l, ok := r.(interface{ Line() int }); ok && err != nil {
			return nil, errors.Wrapf(err, "line %d", l.Line())
		}
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", n)
		}
	}

	return &Report{
		Blocks: n,
		Moves:  m.Moves(),
		Bounds: m.Bounds(),
		Tools:  m.Tools(),
	}, nil
}

package gcode

import (
	"github.com/pkg/errors"
)

// Modal tracks the active code of each group of mutually exclusive codes
// and only writes a code when it changes the controller's mode.
type Modal struct {
	f      Format
	strict bool

	groups [][]float64
	index  map[float64]int

	active []float64
	has    []bool
}

// NewModal builds a registry from groups. With strict set, codes outside
// every group are rejected.
func NewModal(strict bool, f Format, groups ...[]float64) (*Modal, error) {
	m := &Modal{
		f:      f,
		strict: strict,
		groups: groups,
		index:  make(map[float64]int),
		active: make([]float64, len(groups)),
		has:    make([]bool, len(groups)),
	}
	for i, g := range groups {
		for _, code := range g {
			if prev, ok := m.index[code]; ok {
				return nil, errors.Errorf("code %s declared in groups %d and %d", f.Format(code), prev, i)
			}
			m.index[code] = i
		}
	}
	return m, nil
}

// Group returns the index of the group containing code.
func (m *Modal) Group(code float64) (int, bool) {
	i, ok := m.index[code]
	return i, ok
}

// Code returns the word for code, or an empty string if the group is
// already in that mode and force is false.
func (m *Modal) Code(code float64, force bool) (string, error) {
	g, ok := m.index[code]
	if !ok {
		if m.strict {
			return "", NewConfigError("code " + m.f.Format(code) + " is not in a permitted modal group")
		}
		return m.f.Format(code), nil
	}
	if !force && m.has[g] && m.active[g] == code {
		return "", nil
	}

	m.active[g] = code
	m.has[g] = true
	return m.f.Format(code), nil
}

// Active returns the last code issued for group g.
func (m *Modal) Active(g int) (float64, bool) {
	if g < 0 || g >= len(m.groups) {
		return 0, false
	}
	return m.active[g], m.has[g]
}

// ResetGroup forgets the active code of group g so the next request
// for it is written.
func (m *Modal) ResetGroup(g int) {
	if g >= 0 && g < len(m.has) {
		m.has[g] = false
	}
}

// Reset forgets the active code of every group.
func (m *Modal) Reset() {
	for i := range m.has {
		m.has[i] = false
	}
}

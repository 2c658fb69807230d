package gcode

// Control decides when a Variable writes its word.
type Control int

const (
	// ControlOnChange writes only when the formatted value changes.
	ControlOnChange Control = iota
	// ControlForce writes on every call.
	ControlForce
	// ControlNonZero writes whenever the value is nonzero, changed or not.
	// Arc center offsets are relative, so they must repeat. Zero values are
	// still recorded as the last value.
	ControlNonZero
)

func (c Control) String() string {
	switch c {
	case ControlForce:
		return "force"
	case ControlNonZero:
		return "nonzero"
	}
	return "onchange"
}

// A Variable is one output word (X, F, S, ...) with its last emitted value.
type Variable struct {
	f       Format
	control Control

	set   bool
	value float64
	token string
}

// NewVariable returns a Variable that formats with f.
func NewVariable(c Control, f Format) *Variable {
	return &Variable{f: f, control: c}
}

// Emit returns the word for val, or an empty string if it should be
// suppressed.
func (v *Variable) Emit(val float64) string {
	tok := v.f.Format(val)
	switch v.control {
	case ControlOnChange:
		if v.set && tok == v.token {
			return ""
		}
	case ControlNonZero:
		if v.f.IsZero(val) {
			v.remember(val, tok)
			return ""
		}
	}

	v.remember(val, tok)
	return tok
}

func (v *Variable) remember(val float64, tok string) {
	v.set = true
	v.value = val
	v.token = tok
}

// Reset forgets the last emitted value so the next Emit writes.
func (v *Variable) Reset() { v.set = false }

// Last returns the last value written, or for ControlNonZero the last
// value passed to Emit.
func (v *Variable) Last() (float64, bool) { return v.value, v.set }

// Format returns the format used by v.
func (v *Variable) Format() Format { return v.f }

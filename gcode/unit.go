package gcode

// Unit is the linear unit of a program.
type Unit int

const (
	Millimeters Unit = iota
	Inches
)

// Code returns the G-code that selects u (G21 or G20).
func (u Unit) Code() float64 {
	if u == Millimeters {
		return 21
	}
	return 20
}

// AxisDecimals is the coordinate precision used for u.
func (u Unit) AxisDecimals() int {
	if u == Millimeters {
		return 3
	}
	return 4
}

func (u Unit) String() string {
	if u == Millimeters {
		return "mm"
	}
	return "in"
}

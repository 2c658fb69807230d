package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariable_OnChange(t *testing.T) {
	x := NewVariable(ControlOnChange, AxisFormat("X", Millimeters))
	y := NewVariable(ControlOnChange, AxisFormat("Y", Millimeters))

	assert.Equal(t, "X1.000", x.Emit(1))
	assert.Equal(t, "", x.Emit(1))
	assert.Equal(t, "Y1.000", y.Emit(1))
	assert.Equal(t, "", x.Emit(1))
	assert.Equal(t, "X2.000", x.Emit(2))

	// rounds to the same token
	assert.Equal(t, "", x.Emit(2.0001))
	last, ok := x.Last()
	assert.True(t, ok)
	assert.Equal(t, 2.0, last)

	x.Reset()
	assert.Equal(t, "X2.000", x.Emit(2))
}

func TestVariable_Force(t *testing.T) {
	s := NewVariable(ControlForce, Format{Prefix: "S", Kind: Integer})
	for i := 0; i < 3; i++ {
		assert.Equal(t, "S10000", s.Emit(10000))
	}
}

func TestVariable_NonZero(t *testing.T) {
	i := NewVariable(ControlNonZero, AxisFormat("I", Millimeters))

	_, ok := i.Last()
	assert.False(t, ok)

	assert.Equal(t, "", i.Emit(0))
	assert.Equal(t, "", i.Emit(0))

	assert.Equal(t, "I3.200", i.Emit(3.2))
	assert.Equal(t, "I3.200", i.Emit(3.2))
	last, ok := i.Last()
	assert.True(t, ok)
	assert.Equal(t, 3.2, last)

	// suppressed zeros are still recorded
	assert.Equal(t, "", i.Emit(0.0001))
	last, ok = i.Last()
	assert.True(t, ok)
	assert.Equal(t, 0.0001, last)
	assert.Equal(t, "I3.200", i.Emit(3.2))
}

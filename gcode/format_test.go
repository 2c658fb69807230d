package gcode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Format(t *testing.T) {
	x := AxisFormat("X", Millimeters)
	assert.Equal(t, "X12.500", x.Format(12.5))
	assert.Equal(t, "X-3.000", x.Format(-3))
	assert.Equal(t, "X0.000", x.Format(-0.0001))

	in := AxisFormat("Y", Inches)
	assert.Equal(t, "Y1.2346", in.Format(1.23456))

	g := Format{Prefix: "G", Decimals: 1, Trim: true}
	assert.Equal(t, "G1", g.Format(1))
	assert.Equal(t, "G59.1", g.Format(59.1))
	assert.Equal(t, "G6000", g.Format(6000))
}

func TestFormat_Rounding(t *testing.T) {
	f := Format{Decimals: 3}
	assert.Equal(t, "1.001", f.Text(1.0005))
	assert.Equal(t, "-1.001", f.Text(-1.0005))
	assert.Equal(t, "2.675", f.Text(2.675))

	i := Format{Prefix: "S", Kind: Integer}
	assert.Equal(t, "S12000", i.Format(12000))
	assert.Equal(t, "S3", i.Format(2.5))
	assert.Equal(t, "S-3", i.Format(-2.5))
	assert.Equal(t, "S2", i.Format(2.4))
}

func TestFormat_IsZero(t *testing.T) {
	f := AxisFormat("I", Millimeters)
	assert.True(t, f.IsZero(0))
	assert.True(t, f.IsZero(0.0004))
	assert.False(t, f.IsZero(0.0005))
}

func TestFormat_NonFinite(t *testing.T) {
	f := AxisFormat("X", Millimeters)
	assert.Panics(t, func() { f.Format(math.NaN()) })
	assert.Panics(t, func() { f.Format(math.Inf(1)) })
}

package gcode

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Kind selects how a Format renders numbers.
type Kind int

const (
	// Real renders a fixed number of fractional digits.
	Real Kind = iota
	// Integer renders a whole number with no decimal point.
	Integer
)

// Format converts numbers into word tokens like "X12.500" or "G1".
type Format struct {
	Prefix   string
	Decimals int
	Kind     Kind

	// Trim drops trailing fractional zeros (and a dangling point).
	Trim bool
}

var roundCtx = func() *apd.Context {
	c := apd.BaseContext.WithPrecision(34)
	c.Rounding = apd.RoundHalfUp
	return c
}()

// AxisFormat returns the coordinate format for the given unit.
func AxisFormat(prefix string, u Unit) Format {
	return Format{Prefix: prefix, Decimals: u.AxisDecimals(), Kind: Real}
}

func (f Format) exp() int32 {
	if f.Kind == Integer || f.Decimals <= 0 {
		return 0
	}
	return -int32(f.Decimals)
}

// round returns v rounded half away from zero to the precision of f.
//
// It panics if v is NaN or infinite.
func (f Format) round(v float64) *apd.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic("gcode: cannot format non-finite value " + strconv.FormatFloat(v, 'g', -1, 64))
	}
	d, err := new(apd.Decimal).SetFloat64(v)
	if err != nil {
		panic(err)
	}
	res := new(apd.Decimal)
	_, err = roundCtx.Quantize(res, d, f.exp())
	if err != nil {
		panic("gcode: format " + strconv.FormatFloat(v, 'g', -1, 64) + ": " + err.Error())
	}
	if res.IsZero() {
		res.Negative = false
	}
	return res
}

// IsZero reports whether v rounds to zero under f.
func (f Format) IsZero(v float64) bool {
	return f.round(v).IsZero()
}

// Text returns the number part of the token for v.
func (f Format) Text(v float64) string {
	s := f.round(v).Text('f')
	if f.Trim && strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// Format returns the prefixed token for v.
func (f Format) Format(v float64) string {
	return f.Prefix + f.Text(v)
}

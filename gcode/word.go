package gcode

import "strings"

// Word is a single letter address and its argument. Quoted arguments,
// like the prompt text of M291, are kept in Text.
type Word struct {
	W    byte
	Arg  float64
	Text string

	Quoted bool
}

func (w Word) IsAxis() bool {
	switch w.W {
	case 'X', 'Y', 'Z':
		return true
	}
	return false
}

// IsArcOffset reports whether w is an I, J or K center offset.
func (w Word) IsArcOffset() bool {
	switch w.W {
	case 'I', 'J', 'K':
		return true
	}
	return false
}

func (w Word) IsValid() bool {
	return w.W >= 'A' && w.W <= 'Z'
}

var wordFormat = Format{Decimals: 4, Trim: true}

func (w Word) String() string {
	if w.Quoted {
		return string(w.W) + `"` + strings.ReplaceAll(w.Text, `"`, `""`) + `"`
	}
	return string(w.W) + wordFormat.Text(w.Arg)
}

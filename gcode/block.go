package gcode

import (
	"strings"

	"github.com/pkg/errors"
)

type Block []Word

// Arg returns the argument of the first unquoted w word.
func (b Block) Arg(w byte) (bool, float64) {
	for _, g := range b {
		if g.W == w && !g.Quoted {
			return true, g.Arg
		}
	}
	return false, 0
}

// Codes returns the arguments of every w word, in order.
func (b Block) Codes(w byte) []float64 {
	var res []float64
	for _, g := range b {
		if g.W == w && !g.Quoted {
			res = append(res, g.Arg)
		}
	}
	return res
}

// HasAxis reports whether the block moves any axis.
func (b Block) HasAxis() bool {
	for _, g := range b {
		if g.IsAxis() {
			return true
		}
	}
	return false
}

func (b Block) Validate() error {
	var checkWord [256]bool
	var checkModal [256]bool

	var m ModalGroup
	for _, g := range b {
		if !g.IsValid() {
			return errors.Errorf("invalid word %q in block", g.W)
		}
		if g.W != 'G' && checkWord[g.W] {
			return errors.Errorf("word %c was repeated in a block", g.W)
		}
		checkWord[g.W] = true
		m = g.ModalGroup()
		if m != ModalGroupNone && checkModal[m] {
			return errors.Errorf("multiple words from modal group %d", m)
		}
		checkModal[m] = true
	}

	return nil
}

func (b Block) String() string {
	s := make([]string, len(b))
	for i, w := range b {
		s[i] = w.String()
	}
	return strings.Join(s, DefaultSeparator)
}

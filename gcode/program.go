package gcode

import (
	"io"
	"strings"
)

// Reader yields blocks in program order, then io.EOF.
type Reader interface {
	Read() (Block, error)
}

var (
	_ Reader = &Parser{}
	_ Reader = &programReader{}
)

// Program is a whole program held in memory.
type Program []Block

// Reader returns a Reader over the blocks of p.
func (p Program) Reader() Reader { return &programReader{p: p} }

// String renders p one block per line.
func (p Program) String() string {
	var sb strings.Builder
	for _, b := range p {
		sb.WriteString(b.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

type programReader struct {
	p Program
	n int
}

func (r *programReader) Read() (Block, error) {
	if r.n == len(r.p) {
		return nil, io.EOF
	}
	r.n++
	return r.p[r.n-1], nil
}

// ReadAll collects the remaining blocks of r.
func ReadAll(r Reader) (Program, error) {
	var p Program
	for {
		b, err := r.Read()
		if err == io.EOF {
			return p, nil
		}
		if err != nil {
			return nil, err
		}
		p = append(p, b)
	}
}

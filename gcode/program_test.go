package gcode

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram_Reader(t *testing.T) {
	p := Program{
		{{W: 'G', Arg: 17}, {W: 'G', Arg: 2}, {W: 'X', Arg: 5}, {W: 'I', Arg: 2.5}},
		{{W: 'M', Arg: 5}},
	}

	r := p.Reader()

	b, err := r.Read()
	assert.NoError(t, err)
	assert.Equal(t, "G17 G2 X5 I2.5", b.String())

	b, err = r.Read()
	assert.NoError(t, err)
	assert.Equal(t, Block{{W: 'M', Arg: 5}}, b)

	b, err = r.Read()
	assert.Equal(t, io.EOF, err)
	assert.Nil(t, b)

	// each Reader starts over
	all, err := ReadAll(p.Reader())
	require.NoError(t, err)
	assert.Equal(t, p, all)
	assert.Equal(t, "G17 G2 X5 I2.5\nM5\n", all.String())
}

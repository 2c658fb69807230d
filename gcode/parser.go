package gcode

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Parser struct {
	br   *bufio.Reader
	line int
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

var (
	rxComment = regexp.MustCompile(`\([^)]*\)`)
	rxWord    = regexp.MustCompile(`([A-Za-z])\s*(?:"((?:[^"]|"")*)"|([+\-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)))`)
)

// Line returns the number of the last line read.
func (p *Parser) Line() int { return p.line }

// Read returns the next non-empty block. Comments are skipped.
func (p *Parser) Read() (ln Block, err error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		p.line++

		s = strings.SplitN(s, ";", 2)[0]
		s = rxComment.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)

		if s == "" {
			continue
		}

		matches := rxWord.FindAllStringSubmatchIndex(s, -1)
		res := make(Block, 0, len(matches))
		last := 0
		for _, m := range matches {
			if strings.TrimSpace(s[last:m[0]]) != "" {
				return nil, errors.Errorf("line %d: invalid or unhandled text: %s", p.line, s[last:m[0]])
			}
			last = m[1]

			w := Word{W: strings.ToUpper(s[m[2]:m[3]])[0]}
			if m[4] >= 0 {
				w.Quoted = true
				w.Text = strings.ReplaceAll(s[m[4]:m[5]], `""`, `"`)
			} else {
				w.Arg, err = strconv.ParseFloat(s[m[6]:m[7]], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", p.line)
				}
			}
			res = append(res, w)
		}
		if strings.TrimSpace(s[last:]) != "" {
			return nil, errors.Errorf("line %d: invalid or unhandled text: %s", p.line, s[last:])
		}

		return res, nil
	}
}

// Parse reads every block of a program held in memory.
func Parse(data string) (Program, error) {
	return ReadAll(NewParser(strings.NewReader(data)))
}

func MustParse(data string) Program {
	p, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return p
}

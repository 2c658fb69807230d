package gcode

import (
	"io"
	"regexp"
	"strings"
)

// DefaultSeparator is placed between the words of a block.
const DefaultSeparator = " "

var rxUnsafe = regexp.MustCompile(`[^0-9a-zA-Z., =_\-]`)

// SafeText strips everything that could break a comment or quoted
// parameter out of the line grammar.
func SafeText(s string) string {
	return rxUnsafe.ReplaceAllString(s, "")
}

// Assemble joins the non-empty words with sep. It returns an empty string
// when every word was suppressed.
func Assemble(sep string, words ...string) string {
	res := words[:0:0]
	for _, w := range words {
		if w == "" {
			continue
		}
		res = append(res, w)
	}
	return strings.Join(res, sep)
}

// Writer writes blocks and comments one per line. The first write error
// is kept and all later writes are skipped.
type Writer struct {
	w   io.Writer
	sep string
	err error

	lines int
}

// NewWriter returns a Writer using DefaultSeparator.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, sep: DefaultSeparator}
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s+"\n")
	if w.err == nil {
		w.lines++
	}
}

// WriteBlock assembles words and writes the result, unless nothing is left.
// It reports whether a line was written.
func (w *Writer) WriteBlock(words ...string) bool {
	line := Assemble(w.sep, words...)
	if line == "" || w.err != nil {
		return false
	}
	w.WriteLine(line)
	return w.err == nil
}

// WriteComment writes text as a parenthesized comment.
func (w *Writer) WriteComment(text string) {
	w.WriteLine("(" + SafeText(text) + ")")
}

// Lines is the number of lines written so far.
func (w *Writer) Lines() int { return w.lines }

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

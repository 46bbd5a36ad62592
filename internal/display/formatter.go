package display

import (
	"strconv"

	"github.com/fatih/color"
	"github.com/harrison/fe/internal/matcher"
)

// Line is one matching line handed to the formatter.
type Line struct {
	// Path is the display path; empty when scanning standard input.
	Path string
	// Number is 1-based.
	Number int
	// Text is the line content without its terminator.
	Text []byte
	// Terminator is the line ending exactly as read: "\n", "\r\n" or empty.
	Terminator []byte
	// Spans are the match offsets into Text, ascending and non-overlapping.
	Spans []matcher.Span
}

// colorScheme holds the styles used in highlighted mode.
// Green: file path header
// Yellow: line number
// Red background: matched text
type colorScheme struct {
	path   *color.Color
	number *color.Color
	match  *color.Color
}

// newColorScheme builds the highlighted-mode styles with colour forced on.
// Whether to colour at all is decided by the output mode, not by
// fatih/color's own environment detection.
func newColorScheme() *colorScheme {
	scheme := &colorScheme{
		path:   color.New(color.FgGreen),
		number: color.New(color.FgYellow),
		match:  color.New(color.BgRed),
	}
	scheme.path.EnableColor()
	scheme.number.EnableColor()
	scheme.match.EnableColor()
	return scheme
}

// Formatter renders matching lines for one output mode.
// The zero value is not usable; use NewFormatter.
type Formatter struct {
	modes  Modes
	scheme *colorScheme
}

// NewFormatter returns a formatter for the given run modes.
func NewFormatter(modes Modes) *Formatter {
	f := &Formatter{modes: modes}
	if modes.Output == OutputHighlighted {
		f.scheme = newColorScheme()
	}
	return f
}

// AppendFormat appends the bytes to emit for line to dst. firstInFile marks
// the first matching line of a file, which gets a path header in highlighted
// mode when walking a tree.
func (f *Formatter) AppendFormat(dst []byte, line Line, firstInFile bool) []byte {
	if f.modes.Output == OutputPlain {
		return appendPlain(dst, line)
	}

	if firstInFile && f.modes.Input == InputTree {
		dst = append(dst, f.scheme.path.Sprint(line.Path)...)
		dst = append(dst, '\n')
	}

	dst = append(dst, f.scheme.number.Sprint(strconv.Itoa(line.Number))...)
	dst = append(dst, ':')
	dst = f.appendHighlighted(dst, line.Text, line.Spans)
	return append(dst, line.Terminator...)
}

func appendPlain(dst []byte, line Line) []byte {
	dst = append(dst, line.Path...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(line.Number), 10)
	dst = append(dst, ':')
	dst = append(dst, line.Text...)
	return append(dst, line.Terminator...)
}

// appendHighlighted copies text to dst, wrapping every non-empty span in the
// match style. Bytes outside spans are copied untouched.
func (f *Formatter) appendHighlighted(dst, text []byte, spans []matcher.Span) []byte {
	pos := 0
	for _, s := range spans {
		if s.Len() == 0 {
			continue
		}
		dst = append(dst, text[pos:s.Start]...)
		dst = append(dst, f.scheme.match.Sprint(string(text[s.Start:s.End]))...)
		pos = s.End
	}
	return append(dst, text[pos:]...)
}

package search

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/harrison/fe/internal/display"
	"github.com/harrison/fe/internal/matcher"
)

const (
	// DefaultMaxLineLength bounds the content of a scanned line. Longer
	// physical lines are split into several scanned lines.
	DefaultMaxLineLength = 2056

	// MinMaxLineLength is the smallest accepted line bound (bufio's minimum buffer).
	MinMaxLineLength = 16
)

// WriteError wraps a failure to write results. Unlike read failures it is
// fatal to the whole run.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write results: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Scanner reads one stream at a time and writes every matching line.
// It is not safe for concurrent use.
type Scanner struct {
	pattern       *matcher.Pattern
	formatter     *display.Formatter
	out           io.Writer
	maxLineLength int

	spans []matcher.Span
	buf   []byte
	line  []byte
}

// NewScanner creates a Scanner. A maxLineLength below MinMaxLineLength is
// raised to it.
func NewScanner(pattern *matcher.Pattern, formatter *display.Formatter, out io.Writer, maxLineLength int) *Scanner {
	if maxLineLength < MinMaxLineLength {
		maxLineLength = MinMaxLineLength
	}
	return &Scanner{
		pattern:       pattern,
		formatter:     formatter,
		out:           out,
		maxLineLength: maxLineLength,
	}
}

// Scan reads r to the end, writing each line with at least one match under
// the display path. Line numbers start at 1 for every call. It returns the
// number of matching lines. Write failures are returned as *WriteError.
func (s *Scanner) Scan(r io.Reader, path string) (int, error) {
	reader := bufio.NewReaderSize(r, s.maxLineLength)
	lineNum := 0
	matched := 0

	for {
		chunk, err := reader.ReadSlice('\n')
		if len(chunk) > 0 {
			var text, terminator []byte
			if errors.Is(err, bufio.ErrBufferFull) {
				text, terminator = s.cutLine(reader, chunk)
			} else {
				text, terminator = splitTerminator(chunk)
			}

			lineNum++
			ok, werr := s.scanLine(text, terminator, path, lineNum, matched == 0)
			if werr != nil {
				return matched, werr
			}
			if ok {
				matched++
			}
		}

		switch {
		case err == nil, errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return matched, nil
		default:
			return matched, fmt.Errorf("read %s: %w", displayName(path), err)
		}
	}
}

// cutLine terminates a chunk that filled the read buffer. If the physical
// line ends right after it, its real terminator is consumed and kept;
// otherwise the chunk becomes a record of its own ending in "\n".
func (s *Scanner) cutLine(reader *bufio.Reader, chunk []byte) (text, terminator []byte) {
	// Peek may refill the buffer chunk points into.
	s.line = append(s.line[:0], chunk...)

	next, err := reader.Peek(1)
	switch {
	case err != nil:
		return s.line, nil
	case next[0] == '\n':
		reader.Discard(1)
		s.line = append(s.line, '\n')
		return splitTerminator(s.line)
	default:
		return s.line, newline
	}
}

func (s *Scanner) scanLine(text, terminator []byte, path string, lineNum int, firstInFile bool) (bool, error) {
	s.spans = s.spans[:0]
	for span := range s.pattern.FindAll(text) {
		s.spans = append(s.spans, span)
	}
	if len(s.spans) == 0 {
		return false, nil
	}

	s.buf = s.formatter.AppendFormat(s.buf[:0], display.Line{
		Path:       path,
		Number:     lineNum,
		Text:       text,
		Terminator: terminator,
		Spans:      s.spans,
	}, firstInFile)

	if _, err := s.out.Write(s.buf); err != nil {
		return true, &WriteError{Err: err}
	}
	return true, nil
}

var (
	newline = []byte("\n")
	crlf    = []byte("\r\n")
)

// splitTerminator separates a trailing "\n" or "\r\n" from the line content.
func splitTerminator(line []byte) (text, terminator []byte) {
	if bytes.HasSuffix(line, crlf) {
		return line[:len(line)-2], line[len(line)-2:]
	}
	if bytes.HasSuffix(line, newline) {
		return line[:len(line)-1], line[len(line)-1:]
	}
	return line, nil
}

func displayName(path string) string {
	if path == "" {
		return "(standard input)"
	}
	return path
}

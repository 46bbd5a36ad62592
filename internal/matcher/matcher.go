// Package matcher compiles extended regular expressions and reports every
// non-overlapping match on a line.
package matcher

import (
	"fmt"
	"iter"
	"regexp"
	"regexp/syntax"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) of one match within a line.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// CompileError reports a pattern that is not a valid extended regular expression.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Pattern is a compiled, read-only regular expression. It is safe to share.
type Pattern struct {
	re *regexp.Regexp

	// anchored is set when every match must begin at the start of the line.
	// A search over a line suffix must not report it again.
	anchored bool
}

// Compile parses pattern with POSIX extended regular expression syntax and
// leftmost-longest semantics.
func Compile(pattern string) (*Pattern, error) {
	re, err := regexp.CompilePOSIX(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	anchored, err := beginsAnchored(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	return &Pattern{re: re, anchored: anchored}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level patterns.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func beginsAnchored(pattern string) (bool, error) {
	re, err := syntax.Parse(pattern, syntax.POSIX)
	if err != nil {
		return false, err
	}
	return anchoredAtStart(re), nil
}

// anchoredAtStart reports whether every match of re begins with ^.
func anchoredAtStart(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginLine, syntax.OpBeginText:
		return true
	case syntax.OpCapture, syntax.OpPlus:
		return anchoredAtStart(re.Sub[0])
	case syntax.OpRepeat:
		return re.Min > 0 && anchoredAtStart(re.Sub[0])
	case syntax.OpConcat:
		return len(re.Sub) > 0 && anchoredAtStart(re.Sub[0])
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			if !anchoredAtStart(sub) {
				return false
			}
		}
		return len(re.Sub) > 0
	default:
		return false
	}
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.re.String()
}

// FindAll returns the lazy sequence of non-overlapping matches in line, in
// ascending start order. Each search runs against the suffix that follows
// the previous match. An empty match advances the position by at least one
// byte (a whole rune when the line is valid UTF-8), so the sequence always
// terminates.
func (p *Pattern) FindAll(line []byte) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		pos := 0
		for {
			loc := p.re.FindIndex(line[pos:])
			if loc == nil {
				return
			}

			span := Span{Start: pos + loc[0], End: pos + loc[1]}
			if !yield(span) || p.anchored {
				return
			}

			pos = span.End
			if span.Len() == 0 {
				_, size := utf8.DecodeRune(line[pos:])
				pos += max(size, 1)
			}
			if pos >= len(line) {
				return
			}
		}
	}
}

// Spans collects FindAll into a slice.
func (p *Pattern) Spans(line []byte) []Span {
	var spans []Span
	for s := range p.FindAll(line) {
		spans = append(spans, s)
	}
	return spans
}

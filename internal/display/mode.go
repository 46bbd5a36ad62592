package display

import (
	"github.com/mattn/go-isatty"
)

// OutputMode selects how matching lines are rendered.
type OutputMode int

const (
	// OutputPlain renders "path:line:text" with no escape sequences.
	OutputPlain OutputMode = iota
	// OutputHighlighted renders coloured line numbers, path headers and matches.
	OutputHighlighted
)

func (m OutputMode) String() string {
	switch m {
	case OutputPlain:
		return "plain"
	case OutputHighlighted:
		return "highlighted"
	default:
		return "unknown"
	}
}

// InputMode selects where lines come from.
type InputMode int

const (
	// InputTree walks a directory tree and scans every regular file.
	InputTree InputMode = iota
	// InputStream scans standard input as a single anonymous file.
	InputStream
)

func (m InputMode) String() string {
	switch m {
	case InputTree:
		return "tree"
	case InputStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Modes is the pair of decisions made once at startup.
type Modes struct {
	Input  InputMode
	Output OutputMode
}

// TerminalFunc reports whether a stream is an interactive terminal.
type TerminalFunc func(stream any) bool

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether stream is a file descriptor attached to a
// terminal. Streams without a descriptor (buffers, pipes wrapped in readers)
// are never terminals.
func IsTerminal(stream any) bool {
	f, ok := stream.(fder)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// DetectModes inspects stdin and stdout once and returns the run modes.
// A nil isTerminal uses IsTerminal.
func DetectModes(stdin, stdout any, isTerminal TerminalFunc) Modes {
	if isTerminal == nil {
		isTerminal = IsTerminal
	}

	modes := Modes{Input: InputStream, Output: OutputPlain}
	if isTerminal(stdin) {
		modes.Input = InputTree
	}
	if isTerminal(stdout) {
		modes.Output = OutputHighlighted
	}
	return modes
}

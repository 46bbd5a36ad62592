// Package display renders matching lines for the terminal or for a pipe.
//
// Two decisions are made once at startup and never revisited:
//
//	modes := display.DetectModes(os.Stdin, os.Stdout, nil)
//
// InputMode says whether fe walks a directory tree (stdin is a terminal) or
// filters standard input (stdin is piped). OutputMode says whether lines are
// written plain or highlighted (stdout is a terminal).
//
// # Plain output
//
//	path:line:text
//
// No escape sequences are ever written. Standard input has an empty path.
//
// # Highlighted output
//
// When walking a tree, the first matching line of each file is preceded by
// the bare path in green. Each matching line is written as a yellow line
// number, a colon, and the line text with every match on a red background.
//
// In both modes the line terminator is written exactly as it was read, so a
// line ending in a newline produces exactly one newline and the final line
// of a file without one produces none.
package display

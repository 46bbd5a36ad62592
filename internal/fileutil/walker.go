package fileutil

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// DefaultExcludeDirs are the version-control metadata directories skipped by default.
var DefaultExcludeDirs = []string{".git"}

// WalkOptions configures tree traversal.
type WalkOptions struct {
	// ExcludeDirs lists path segments that exclude an entry (e.g., ".git").
	// Any entry whose path contains one of them is neither yielded nor descended into.
	ExcludeDirs []string

	// OnExclude, when set, is called with each excluded path that is pruned.
	OnExclude func(path string)
}

// Entry is a single filesystem entry discovered by Walk.
type Entry struct {
	// Path is the entry path as discovered, joined onto the walk root.
	Path string
	// Type holds the type bits of the entry. Symlinks are reported as
	// symlinks, never as their target.
	Type fs.FileMode
}

// IsRegular reports whether the entry is a regular file.
func (e Entry) IsRegular() bool {
	return e.Type.IsRegular()
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type.IsDir()
}

// WalkError reports an entry that could not be read during traversal.
type WalkError struct {
	Path string
	Err  error
	// Root is set when the failure is at the walk root, so nothing could be traversed.
	Root bool
}

func (e *WalkError) Error() string {
	if e.Root {
		return fmt.Sprintf("cannot walk %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Walk returns a lazy, depth-first, pre-order sequence of the entries under
// root, in lexical order within each directory. Symbolic links are not
// followed. Excluded entries are skipped silently. Unreadable entries are
// yielded as a *WalkError and the walk continues; an error at the root is
// yielded with Root set and ends the sequence.
//
// The sequence is restartable only by ranging over it again, which walks the
// tree afresh.
func Walk(root string, opts WalkOptions) iter.Seq2[Entry, error] {
	excluded := make(map[string]bool, len(opts.ExcludeDirs))
	for _, dir := range opts.ExcludeDirs {
		excluded[dir] = true
	}

	return func(yield func(Entry, error) bool) {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				werr := &WalkError{Path: path, Err: err, Root: path == root}
				if !yield(Entry{Path: path}, werr) || werr.Root {
					return filepath.SkipAll
				}
				// A nil d means the entry itself could not be stat'ed; a
				// directory whose listing failed is simply not descended into.
				return nil
			}

			if isExcluded(path, excluded) {
				if opts.OnExclude != nil {
					opts.OnExclude(path)
				}
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(Entry{Path: path, Type: d.Type()}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// isExcluded reports whether any segment of path is an excluded name.
func isExcluded(path string, excluded map[string]bool) bool {
	if len(excluded) == 0 {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if excluded[segment] {
			return true
		}
	}
	return false
}

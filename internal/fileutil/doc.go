// Package fileutil walks directory trees for the searcher.
//
// Walk produces a lazy sequence of entries rather than invoking a callback,
// so the consumer decides what to do with each entry and each error:
//
//	for entry, err := range fileutil.Walk(root, fileutil.WalkOptions{ExcludeDirs: []string{".git"}}) {
//	    var werr *fileutil.WalkError
//	    if errors.As(err, &werr) && werr.Root {
//	        return err // nothing can be searched
//	    }
//	    if err != nil || !entry.IsRegular() {
//	        continue
//	    }
//	    // scan entry.Path
//	}
//
// Traversal is depth-first and pre-order with entries visited in lexical
// order, so two walks over an unchanged tree produce the same sequence.
// Symbolic links are reported as themselves and never followed.
//
// # Exclusion
//
// An entry is excluded when any segment of its path equals one of
// WalkOptions.ExcludeDirs. Excluded directories are not descended into and
// excluded entries are never yielded.
package fileutil

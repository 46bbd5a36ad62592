// Package search scans files and streams for lines matching a pattern and
// writes them through a display formatter.
package search

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/harrison/fe/internal/fileutil"
)

// Logger receives diagnostics. It never receives search results.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogError(message string)
}

// Options configures a Searcher.
type Options struct {
	// ExcludeDirs lists path segments never scanned or descended into.
	ExcludeDirs []string
}

// Stats summarizes a run.
type Stats struct {
	FilesScanned int
	FilesFailed  int
	MatchedLines int
}

// Searcher drives a Scanner over a directory tree or a single stream.
type Searcher struct {
	scanner *Scanner
	logger  Logger
	opts    Options
	stats   Stats
}

// NewSearcher creates a Searcher. A nil logger discards diagnostics.
func NewSearcher(scanner *Scanner, logger Logger, opts Options) *Searcher {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Searcher{
		scanner: scanner,
		logger:  logger,
		opts:    opts,
	}
}

// Stats returns the counters accumulated so far.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// SearchTree scans every regular file under root. Files that cannot be
// opened or read are reported and skipped. It returns an error only when
// the root cannot be traversed or results cannot be written.
func (s *Searcher) SearchTree(root string) error {
	walkOpts := fileutil.WalkOptions{
		ExcludeDirs: s.opts.ExcludeDirs,
		OnExclude: func(path string) {
			s.logger.LogTrace(fmt.Sprintf("excluded %s", path))
		},
	}

	for entry, err := range fileutil.Walk(root, walkOpts) {
		if err != nil {
			var werr *fileutil.WalkError
			if errors.As(err, &werr) && werr.Root {
				return err
			}
			s.logger.LogDebug(fmt.Sprintf("skipping: %v", err))
			continue
		}

		if !entry.IsRegular() {
			if !entry.IsDir() {
				s.logger.LogTrace(fmt.Sprintf("skipping non-regular file %s", entry.Path))
			}
			continue
		}

		if err := s.scanFile(entry.Path); err != nil {
			var writeErr *WriteError
			if errors.As(err, &writeErr) {
				return err
			}
			s.stats.FilesFailed++
			s.logger.LogError(err.Error())
		}
	}

	s.logger.LogDebug(fmt.Sprintf("scanned %d files, %d failed, %d matching lines",
		s.stats.FilesScanned, s.stats.FilesFailed, s.stats.MatchedLines))
	return nil
}

// scanFile holds the file open only for the duration of the scan.
func (s *Searcher) scanFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s.stats.FilesScanned++
	matched, err := s.scanner.Scan(f, path)
	s.stats.MatchedLines += matched
	return err
}

// SearchStream scans r as a single anonymous file with an empty display path.
func (s *Searcher) SearchStream(r io.Reader) error {
	s.stats.FilesScanned++
	matched, err := s.scanner.Scan(r, "")
	s.stats.MatchedLines += matched
	if err != nil {
		return err
	}

	s.logger.LogDebug(fmt.Sprintf("scanned standard input, %d matching lines", matched))
	return nil
}

type nopLogger struct{}

func (nopLogger) LogTrace(string) {}
func (nopLogger) LogDebug(string) {}
func (nopLogger) LogError(string) {}

// Package mapping builds the fdtshim mapping document from a directory of
// dtb files.
package mapping

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/dtbdata"
)

// Pattern selects dtb files below the scanned root.
const Pattern = "**/*.dtb"

var (
	// ErrTraversal wraps failures while enumerating the directory tree.
	ErrTraversal = errors.New("mapping: filesystem traversal failed")
	// ErrExtract wraps failures while reading a single dtb.
	ErrExtract = errors.New("mapping: dtb extraction failed")
)

// Collect enumerates every dtb below root and extracts its record. The first
// error aborts the walk.
func Collect(root string, logger *log.Logger) ([]*dtbdata.Record, error) {
	logger = orDiscard(logger)

	matches, err := doublestar.Glob(os.DirFS(root), Pattern,
		doublestar.WithFailOnIOErrors(),
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTraversal, err)
	}

	records := make([]*dtbdata.Record, 0, len(matches))
	for _, match := range matches {
		rec, err := dtbdata.Extract(filepath.Join(root, filepath.FromSlash(match)), root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExtract, err)
		}
		logger.Infof("    Reading %q", rec.Path)
		records = append(records, rec)
	}
	return records, nil
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}

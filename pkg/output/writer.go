// Package output exports signal tables: CSV and XLSX files for downstream
// tools and a terminal preview of the most recent rows.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/screener"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// HeaderStyle selects how column keys are laid out in exported files.
type HeaderStyle string

const (
	// HeaderMulti writes two header rows: instruments, then indicators.
	HeaderMulti HeaderStyle = "multi"
	// HeaderFlat writes a single "instrument/indicator" header row.
	HeaderFlat HeaderStyle = "flat"
)

// IsValid reports whether h is a known header style.
func (h HeaderStyle) IsValid() bool {
	return h == HeaderMulti || h == HeaderFlat
}

// TableWriter exports a complete signal table. Implementations never leave a
// partially written file at their destination.
type TableWriter interface {
	Write(table *screener.SignalTable) error
}

// NewTableWriter picks a writer from the file extension of path: ".xlsx"
// writes a workbook, anything else CSV. Timestamps are rendered in loc.
func NewTableWriter(path string, header HeaderStyle, loc *time.Location) (TableWriter, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "output path is required")
	}

	if header == "" {
		header = HeaderMulti
	}

	if !header.IsValid() {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown header style %q", string(header))
	}

	if loc == nil {
		loc = time.UTC
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSXWriter(path, header, loc), nil
	}

	return NewCSVWriter(path, header, loc), nil
}

// headerRows renders the column keys of table. The first column holds the
// row labels of the header and then the timestamps.
func headerRows(table *screener.SignalTable, header HeaderStyle) [][]string {
	keys := table.Keys()

	if header == HeaderFlat {
		row := make([]string, 0, len(keys)+1)
		row = append(row, "timestamp")

		for _, key := range keys {
			row = append(row, fmt.Sprintf("%s/%s", key.Instrument, key.Indicator))
		}

		return [][]string{row}
	}

	instruments := make([]string, 0, len(keys)+1)
	indicators := make([]string, 0, len(keys)+1)
	instruments = append(instruments, "ticker")
	indicators = append(indicators, "indicator")

	for _, key := range keys {
		instruments = append(instruments, key.Instrument)
		indicators = append(indicators, string(key.Indicator))
	}

	return [][]string{instruments, indicators}
}

// replaceFile runs write against a temporary file next to path and renames
// it onto path only if write succeeds.
func replaceFile(path string, write func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeOutputWriteFailed, err, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(errors.ErrCodeOutputWriteFailed, err, "failed to create temporary file in %s", dir)
	}

	tmpPath := tmp.Name()
	tmp.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)

		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)

		return errors.Wrapf(errors.ErrCodeOutputWriteFailed, err, "failed to move output to %s", path)
	}

	return nil
}

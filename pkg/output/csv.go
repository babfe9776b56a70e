package output

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/screener"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// CSVWriter writes a signal table as CSV: the header rows, then one row per
// timestamp (RFC3339 in the writer's zone). Not computed cells are empty.
type CSVWriter struct {
	path     string
	header   HeaderStyle
	location *time.Location
}

// NewCSVWriter creates a CSV writer for path.
func NewCSVWriter(path string, header HeaderStyle, loc *time.Location) *CSVWriter {
	return &CSVWriter{path: path, header: header, location: loc}
}

// Write implements TableWriter.
func (w *CSVWriter) Write(table *screener.SignalTable) error {
	return replaceFile(w.path, func(tmpPath string) error {
		file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to open temporary file", err)
		}
		defer file.Close()

		writer := csv.NewWriter(file)

		if err := writer.WriteAll(Records(table, w.header, w.location)); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to write csv", err)
		}

		if err := file.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to close csv", err)
		}

		return nil
	})
}

// Records renders the whole table, header rows included, as CSV records.
func Records(table *screener.SignalTable, header HeaderStyle, loc *time.Location) [][]string {
	records := headerRows(table, header)

	for i, ts := range table.Index {
		record := make([]string, 0, len(table.Columns)+1)
		record = append(record, ts.In(loc).Format(time.RFC3339))

		for _, cell := range table.Row(i) {
			record = append(record, cell.String())
		}

		records = append(records, record)
	}

	return records
}

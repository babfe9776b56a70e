package output

import (
	"os"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/screener"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the signal table.
const SheetName = "signals"

// XLSXWriter writes a signal table as a single-sheet workbook with the same
// layout as the CSV export. Directions are stored as numbers, trend bands as
// text and not computed cells are left blank.
type XLSXWriter struct {
	path     string
	header   HeaderStyle
	location *time.Location
}

// NewXLSXWriter creates a workbook writer for path.
func NewXLSXWriter(path string, header HeaderStyle, loc *time.Location) *XLSXWriter {
	return &XLSXWriter{path: path, header: header, location: loc}
}

// Write implements TableWriter.
func (w *XLSXWriter) Write(table *screener.SignalTable) error {
	workbook, err := w.build(table)
	if err != nil {
		return err
	}
	defer workbook.Close()

	return replaceFile(w.path, func(tmpPath string) error {
		file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to open temporary file", err)
		}
		defer file.Close()

		if err := workbook.Write(file); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to write workbook", err)
		}

		if err := file.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to close workbook", err)
		}

		return nil
	})
}

func (w *XLSXWriter) build(table *screener.SignalTable) (*excelize.File, error) {
	workbook := excelize.NewFile()

	if err := workbook.SetSheetName("Sheet1", SheetName); err != nil {
		workbook.Close()

		return nil, errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to name sheet", err)
	}

	stream, err := workbook.NewStreamWriter(SheetName)
	if err != nil {
		workbook.Close()

		return nil, errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to open sheet", err)
	}

	row := 1

	setRow := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}

		row++

		return stream.SetRow(cell, values)
	}

	for _, header := range headerRows(table, w.header) {
		values := make([]any, len(header))
		for i, v := range header {
			values[i] = v
		}

		if err := setRow(values); err != nil {
			workbook.Close()

			return nil, errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to write header", err)
		}
	}

	for i, ts := range table.Index {
		values := make([]any, 0, len(table.Columns)+1)
		values = append(values, ts.In(w.location).Format(time.RFC3339))

		for _, cell := range table.Row(i) {
			values = append(values, cellValue(cell))
		}

		if err := setRow(values); err != nil {
			workbook.Close()

			return nil, errors.Wrapf(errors.ErrCodeOutputWriteFailed, err, "failed to write row %d", i)
		}
	}

	if err := stream.Flush(); err != nil {
		workbook.Close()

		return nil, errors.Wrap(errors.ErrCodeOutputWriteFailed, "failed to flush sheet", err)
	}

	return workbook, nil
}

// =============================================================================
// Coordinate Converter - XLSX Writer
// =============================================================================
//
// This module writes output rows to a new workbook with a single sheet. Rows
// are streamed into the sheet as they arrive; the workbook itself is
// serialized to the destination when the writer is closed, so a failed run
// still produces a workbook containing every row written before the failure.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// SheetName is the name of the sheet rows are written to.
const SheetName = "Sheet1"

// Writer streams rows into a workbook. It implements types.RowWriter.
type Writer struct {
	dst    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// New creates a Writer that serializes the workbook to dst on Close.
func New(dst io.Writer) (*Writer, error) {
	f := excelize.NewFile()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to create sheet writer: %w", types.ErrIO, err)
	}

	return &Writer{dst: dst, file: f, stream: sw}, nil
}

// Write appends one row to the sheet. All cells are written as text.
func (w *Writer) Write(row types.Row) error {
	w.row++

	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return fmt.Errorf("%w: row %d: %w", types.ErrIO, w.row, err)
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := w.stream.SetRow(cell, values); err != nil {
		return fmt.Errorf("%w: write row %d: %w", types.ErrIO, w.row, err)
	}
	return nil
}

// Close finishes the sheet, serializes the workbook and closes dst if it is
// closable.
func (w *Writer) Close() error {
	var errs []error

	if err := w.stream.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("%w: flush sheet: %w", types.ErrIO, err))
	} else if _, err := w.file.WriteTo(w.dst); err != nil {
		errs = append(errs, fmt.Errorf("%w: write workbook: %w", types.ErrIO, err))
	}

	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if c, ok := w.dst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close output: %w", types.ErrIO, err))
		}
	}

	return errors.Join(errs...)
}

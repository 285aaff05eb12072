// =============================================================================
// Coordinate Converter - XLSX Sheet Reader
// =============================================================================
//
// This module streams rows from the first worksheet of an XLSX workbook, so
// coordinate lists kept in spreadsheets can be converted without exporting
// them to text first.
//
// SHEET LAYOUT:
//   | Column A   | Column B | Column C |
//   |------------|----------|----------|
//   | namn       | X        | Y        |   <- header row
//   | fixedpoint | 6580994  | 1628293  |   <- data rows
//
//   Cells are read as their formatted text, the same way they would appear
//   in a CSV export. Completely empty rows are skipped.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// SheetReader streams rows from one worksheet. It implements types.RowReader.
type SheetReader struct {
	file       *excelize.File
	rows       *excelize.Rows
	src        io.Closer
	sheet      string
	currentRow types.Row
	rowNumber  int
	err        error
}

// Open reads a workbook from r and prepares to stream its first sheet.
// If r implements io.Closer, Close closes it.
//
// RETURNS:
//   - A SheetReader positioned before the first row.
//   - An IOError if the workbook cannot be read or has no sheets.
func Open(r io.Reader) (*SheetReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", types.ErrIO, err)
	}

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", types.ErrIO)
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", types.ErrIO, sheetName, err)
	}

	reader := &SheetReader{
		file:  f,
		rows:  rows,
		sheet: sheetName,
	}
	if c, ok := r.(io.Closer); ok {
		reader.src = c
	}
	return reader, nil
}

// Sheet returns the name of the sheet being read.
func (s *SheetReader) Sheet() string {
	return s.sheet
}

// Next advances to the next non-empty row.
func (s *SheetReader) Next() bool {
	if s.err != nil {
		return false
	}

	for s.rows.Next() {
		// Rows.Next visits every sheet row, including ones absent from the
		// sheet data, so the count is the sheet's own row number.
		s.rowNumber++
		cols, err := s.rows.Columns()
		if err != nil {
			s.err = fmt.Errorf("%w: error reading row %d: %w", types.ErrIO, s.rowNumber, err)
			return false
		}
		if isRowEmpty(cols) {
			continue
		}
		s.currentRow = cols
		return true
	}

	if err := s.rows.Error(); err != nil {
		s.err = fmt.Errorf("%w: error reading sheet %q: %w", types.ErrIO, s.sheet, err)
	}
	return false
}

// Row returns the current row.
func (s *SheetReader) Row() types.Row {
	return s.currentRow
}

// RowNumber returns the sheet row number of the current row (1-indexed,
// header included, empty rows counted).
func (s *SheetReader) RowNumber() int {
	return s.rowNumber
}

// Err returns any error that occurred while reading.
func (s *SheetReader) Err() error {
	return s.err
}

// Close releases the sheet iterator, the workbook and the source.
func (s *SheetReader) Close() error {
	err := s.rows.Close()
	if ferr := s.file.Close(); err == nil {
		err = ferr
	}
	if s.src != nil {
		if serr := s.src.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

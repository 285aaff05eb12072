// =============================================================================
// Coordinate Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - converter
//   - csvparser / xlsxparser
//   - csvwriter / xlsxwriter
//
// =============================================================================

package types

// =============================================================================
// ROW TYPES
// =============================================================================

// Row is one input or output record: an ordered list of text fields.
// Column positions used by the converter are 1-based, so field N of a row is
// Row[N-1].
type Row []string

// Field returns the value at the 1-based column position and whether the
// column exists in the row.
func (r Row) Field(column int) (string, bool) {
	if column < 1 || column > len(r) {
		return "", false
	}
	return r[column-1], true
}

// =============================================================================
// ROW SOURCES AND SINKS
// =============================================================================

// RowReader streams rows from an input source, one at a time.
//
// USAGE:
//
//	for reader.Next() {
//	    row := reader.Row()
//	    // Process the row...
//	}
//	if err := reader.Err(); err != nil {
//	    return err
//	}
type RowReader interface {
	// Next advances to the next row. Returns false at end of input or on error.
	Next() bool

	// Row returns the current row.
	Row() Row

	// RowNumber returns the 1-based number of the current row in the source,
	// counting the header as row 1.
	RowNumber() int

	// Err returns the first error encountered while reading, if any.
	Err() error

	// Close releases the underlying source.
	Close() error
}

// RowWriter writes rows to an output sink.
type RowWriter interface {
	// Write appends one row to the output.
	Write(row Row) error

	// Close flushes buffered rows and releases the underlying sink.
	// Rows written before a failure are kept.
	Close() error
}

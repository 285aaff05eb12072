package types

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR KINDS
// =============================================================================
// Every error surfaced by the converter wraps exactly one of these kinds so
// callers can classify failures with errors.Is.

var (
	// ErrConfiguration covers unknown projection identifiers and invalid options.
	ErrConfiguration = errors.New("configuration error")

	// ErrIO covers files that cannot be opened, read, written or decoded.
	ErrIO = errors.New("i/o error")

	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("empty input")

	// ErrParse covers non-numeric coordinate fields and missing columns.
	ErrParse = errors.New("parse error")

	// ErrTransform is returned when the geodetic transform rejects a coordinate.
	ErrTransform = errors.New("transform error")
)

// =============================================================================
// ROW ERROR
// =============================================================================

// RowError describes a failure tied to a specific input row.
// It identifies the row, column and value that caused the failure.
type RowError struct {
	// Kind is one of the Err* sentinels above.
	Kind error

	// Row is the 1-based row number in the input (the header is row 1).
	Row int

	// Column is the 1-based column number, or 0 when not column specific.
	Column int

	// Value is the offending field text, if any.
	Value string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
//
// FORMAT:
//
//	parse error: row 4, column 2 ("abc"): strconv.ParseFloat: invalid syntax
func (e *RowError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(": row ")
	fmt.Fprintf(&b, "%d", e.Row)
	if e.Column > 0 {
		fmt.Fprintf(&b, ", column %d", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (%q)", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		// Causes built with Errorf already carry the kind prefix.
		b.WriteString(strings.TrimPrefix(e.Err.Error(), e.Kind.Error()+": "))
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *RowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

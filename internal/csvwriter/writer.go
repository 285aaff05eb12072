// =============================================================================
// Coordinate Converter - CSV Writer Module
// =============================================================================
//
// This module writes output rows as delimited text. Fields containing the
// delimiter, quotes or line breaks are quoted; everything else is written
// verbatim.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// Options controls the output format.
type Options struct {
	// Delimiter separates fields. Default: ';'
	Delimiter rune

	// CRLF terminates lines with "\r\n" instead of "\n".
	CRLF bool
}

// Writer writes delimited rows. It implements types.RowWriter.
//
// Each row is formatted into a private buffer and handed to the destination
// in a single Write, so a destination error belongs to exactly one row and a
// failed row never reaches the output half written.
type Writer struct {
	dst io.Writer
	row bytes.Buffer
	w   *csv.Writer
}

// New creates a Writer on dst. If dst implements io.Closer, Close closes it.
func New(dst io.Writer, opts Options) *Writer {
	wr := &Writer{dst: dst}
	wr.w = csv.NewWriter(&wr.row)
	if opts.Delimiter != 0 {
		wr.w.Comma = opts.Delimiter
	} else {
		wr.w.Comma = ';'
	}
	wr.w.UseCRLF = opts.CRLF
	return wr
}

// Write formats one row and writes it to the destination.
func (w *Writer) Write(row types.Row) error {
	w.row.Reset()
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("%w: write row: %w", types.ErrIO, err)
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("%w: write row: %w", types.ErrIO, err)
	}
	if _, err := w.dst.Write(w.row.Bytes()); err != nil {
		if errors.Is(err, types.ErrIO) {
			return err
		}
		return fmt.Errorf("%w: write row: %w", types.ErrIO, err)
	}
	return nil
}

// Close closes the destination.
func (w *Writer) Close() error {
	if c, ok := w.dst.(io.Closer); ok {
		if err := c.Close(); err != nil {
			if errors.Is(err, types.ErrIO) {
				return err
			}
			return fmt.Errorf("%w: close output: %w", types.ErrIO, err)
		}
	}
	return nil
}

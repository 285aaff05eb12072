// =============================================================================
// Coordinate Converter - Converter Module
// =============================================================================
//
// This module drives the conversion of one input stream. It reads the header,
// builds the output header, then converts and emits rows one at a time.
//
// OUTPUT LAYOUTS:
//   The header and every row use the same layout:
//   - Append mode:  all input columns, then destY, destX
//   - Label column: LABEL, destY, destX
//   - Otherwise:    destY, destX
//
// CONVERSION PIPELINE:
//   1. Read the first input row as the header (none at all -> ErrEmptyInput)
//   2. Write the output header
//   3. For each remaining row: transform, lay out, write
//   4. Stop at the first failing row; rows already written stay written
//
// =============================================================================

package converter

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/coordconv/internal/projection"
	"github.com/ginjaninja78/coordconv/internal/types"
)

// LabelHeader is the header of the label column.
const LabelHeader = "LABEL"

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

// Options configures a conversion.
type Options struct {
	// Source and Dest are the resolved coordinate systems.
	Source *projection.Definition
	Dest   *projection.Definition

	// XColumn and YColumn are the 1-based coordinate columns.
	XColumn int
	YColumn int

	// LabelColumn is the 1-based column copied in front of the coordinates.
	// 0 disables it. Ignored in append mode.
	LabelColumn int

	// Append copies every input column in front of the coordinates.
	Append bool
}

// Result summarizes a conversion.
type Result struct {
	// RowsWritten counts data rows written, excluding the header.
	RowsWritten int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts one input stream.
type Converter struct {
	opts        Options
	reader      types.RowReader
	transformer *Transformer
	logger      zerolog.Logger

	header     types.Row
	headerRead bool
}

// New creates a Converter reading rows from reader.
func New(opts Options, reader types.RowReader, logger zerolog.Logger) *Converter {
	return &Converter{
		opts:        opts,
		reader:      reader,
		transformer: NewTransformer(opts.Source, opts.Dest, opts.XColumn, opts.YColumn),
		logger:      logger,
	}
}

// =============================================================================
// HEADER
// =============================================================================

// Header reads the input header (once) and returns the output header.
//
// RETURNS:
//   - The output header in the configured layout.
//   - ErrEmptyInput if the input has no rows, or the reader's error.
func (c *Converter) Header() (types.Row, error) {
	if !c.headerRead {
		if !c.reader.Next() {
			if err := c.reader.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: no header row", types.ErrEmptyInput)
		}
		c.header = c.reader.Row()
		c.headerRead = true

		c.logger.Debug().
			Strs("header", c.header).
			Str("source", c.opts.Source.Name).
			Str("dest", c.opts.Dest.Name).
			Msg("header read")
	}

	dest := c.opts.Dest
	switch {
	case c.opts.Append:
		return append(slices.Clone(c.header), dest.YLabel, dest.XLabel), nil
	case c.opts.LabelColumn > 0:
		return types.Row{LabelHeader, dest.YLabel, dest.XLabel}, nil
	default:
		return types.Row{dest.YLabel, dest.XLabel}, nil
	}
}

// =============================================================================
// ROWS
// =============================================================================

// Rows returns the lazy sequence of output rows. The header is read first if
// Header has not been called. The sequence ends after the first error.
func (c *Converter) Rows() iter.Seq2[types.Row, error] {
	return func(yield func(types.Row, error) bool) {
		if !c.headerRead {
			if _, err := c.Header(); err != nil {
				yield(nil, err)
				return
			}
		}

		for c.reader.Next() {
			out, err := c.convert(c.reader.Row(), c.reader.RowNumber())
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}

		if err := c.reader.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// convert transforms one row and lays it out.
func (c *Converter) convert(row types.Row, rowNumber int) (types.Row, error) {
	y, x, err := c.transformer.Transform(row, rowNumber)
	if err != nil {
		return nil, err
	}

	switch {
	case c.opts.Append:
		return append(slices.Clone(row), y, x), nil
	case c.opts.LabelColumn > 0:
		label, ok := row.Field(c.opts.LabelColumn)
		if !ok {
			return nil, &types.RowError{
				Kind:   types.ErrParse,
				Row:    rowNumber,
				Column: c.opts.LabelColumn,
				Err:    fmt.Errorf("label column missing, row has %d field(s)", len(row)),
			}
		}
		return types.Row{label, y, x}, nil
	default:
		return types.Row{y, x}, nil
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run writes the output header and every converted row to w.
//
// Run does not close w; the caller closes it on every path so rows written
// before a failure are flushed. A row is counted only once w accepted it; a
// write failure is returned as an IOError naming the input row.
func (c *Converter) Run(w types.RowWriter) (Result, error) {
	start := time.Now()
	var result Result

	header, err := c.Header()
	if err != nil {
		return result, err
	}
	if err := w.Write(header); err != nil {
		result.Elapsed = time.Since(start)
		return result, c.writeError(err)
	}

	for row, err := range c.Rows() {
		if err != nil {
			result.Elapsed = time.Since(start)
			c.logger.Error().Err(err).Int("rows_written", result.RowsWritten).Msg("conversion aborted")
			return result, err
		}
		if err := w.Write(row); err != nil {
			result.Elapsed = time.Since(start)
			err = c.writeError(err)
			c.logger.Error().Err(err).Int("rows_written", result.RowsWritten).Msg("conversion aborted")
			return result, err
		}
		result.RowsWritten++
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// writeError ties a writer failure to the input row that produced it.
func (c *Converter) writeError(err error) error {
	return &types.RowError{
		Kind: types.ErrIO,
		Row:  c.reader.RowNumber(),
		Err:  err,
	}
}

// =============================================================================
// Coordinate Converter - Row Transformer
// =============================================================================
//
// This module converts the coordinate pair of a single row from the source
// system to the destination system.
//
// TRANSFORMATION STEPS:
//   1. Read the X and Y fields at their configured (1-based) column positions
//   2. Parse both as real numbers
//   3. Call the geodetic transform with Y first, then X
//   4. Format both results with the destination's numeric convention
//   5. Return them in (Y, X) order to match the destination's axis labels
//
// AXIS ORDER:
//   The Y field is always passed as the first (easting/longitude) transform
//   input, whichever system is involved. Existing data sets depend on this
//   order, so it is kept as is: for RT90 the X column holds northing and the
//   Y column easting; for SWEREF99 and WGS84 the X column holds northing or
//   latitude and the Y column easting or longitude.
//
// ERROR HANDLING:
//   Failures abort the row with a RowError (ErrParse or ErrTransform). The
//   converter does not skip bad rows.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/coordconv/internal/projection"
	"github.com/ginjaninja78/coordconv/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

var errNotFinite = errors.New("not a finite number")

// Transformer converts the coordinate fields of one row at a time.
// It holds no mutable state and may be shared.
type Transformer struct {
	source  *projection.Definition
	dest    *projection.Definition
	xColumn int
	yColumn int
}

// NewTransformer creates a Transformer for the given systems and columns.
//
// PARAMETERS:
//   - source, dest: Resolved registry definitions.
//   - xColumn, yColumn: 1-based positions of the X and Y fields.
func NewTransformer(source, dest *projection.Definition, xColumn, yColumn int) *Transformer {
	return &Transformer{
		source:  source,
		dest:    dest,
		xColumn: xColumn,
		yColumn: yColumn,
	}
}

// Transform converts one row.
//
// PARAMETERS:
//   - row: The input row.
//   - rowNumber: The row's number in the input, used in error messages.
//
// RETURNS:
//   - yText, xText: The transformed pair formatted for the destination,
//     northing/latitude first.
//   - A RowError wrapping ErrParse or ErrTransform on failure.
func (t *Transformer) Transform(row types.Row, rowNumber int) (yText, xText string, err error) {
	x, err := parseCoordinate(row, t.xColumn, rowNumber)
	if err != nil {
		return "", "", err
	}
	y, err := parseCoordinate(row, t.yColumn, rowNumber)
	if err != nil {
		return "", "", err
	}

	e, n, err := projection.Transform(t.source, t.dest, y, x)
	if err != nil {
		return "", "", &types.RowError{
			Kind:  types.ErrTransform,
			Row:   rowNumber,
			Value: fmt.Sprintf("%s=%v, %s=%v", t.source.YLabel, y, t.source.XLabel, x),
			Err:   err,
		}
	}

	format := t.dest.Format
	return format.Format(n), format.Format(e), nil
}

// parseCoordinate reads and parses the field at a 1-based column.
func parseCoordinate(row types.Row, column, rowNumber int) (float64, error) {
	text, ok := row.Field(column)
	if !ok {
		return 0, &types.RowError{
			Kind:   types.ErrParse,
			Row:    rowNumber,
			Column: column,
			Err:    fmt.Errorf("row has %d field(s)", len(row)),
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = errNotFinite
	}
	if err != nil {
		return 0, &types.RowError{
			Kind:   types.ErrParse,
			Row:    rowNumber,
			Column: column,
			Value:  text,
			Err:    err,
		}
	}
	return v, nil
}

// =============================================================================
// Coordinate Converter - CSV Parser Module
// =============================================================================
//
// This module streams rows from delimited text input. Rows are returned as
// they appear, one at a time, so arbitrarily large inputs are converted
// without being loaded into memory.
//
// FEATURES:
//   - Configurable single-character delimiter (";" by default)
//   - Named delimiters: "tab", "pipe", "semicolon", "comma", "space"
//   - Quoted fields, lazy quote handling
//   - Variable number of fields per row
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// =============================================================================
// DELIMITERS
// =============================================================================

// ParseDelimiter converts a delimiter option into the rune used by the reader
// and writer.
//
// ACCEPTED VALUES:
//   - Any single character, e.g. ";", ",", "|"
//   - "\t", "tab", "pipe", "semicolon", "comma", "space"
func ParseDelimiter(value string) (rune, error) {
	switch strings.ToLower(value) {
	case "\\t", "tab":
		return '\t', nil
	case "pipe":
		return '|', nil
	case "semicolon":
		return ';', nil
	case "comma":
		return ',', nil
	case "space":
		return ' ', nil
	}

	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", types.ErrConfiguration, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: delimiter %q is not allowed", types.ErrConfiguration, value)
	}
	return r, nil
}

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser reads delimited rows one at a time.
// It implements types.RowReader.
//
// USAGE:
//
//	parser := csvparser.NewStreamingParser(r, ';')
//	defer parser.Close()
//
//	for parser.Next() {
//	    row := parser.Row()
//	    // Process the row...
//	}
//
//	if err := parser.Err(); err != nil {
//	    return err
//	}
type StreamingParser struct {
	src        io.Closer
	reader     *csv.Reader
	currentRow types.Row
	rowNumber  int
	err        error
}

// NewStreamingParser creates a streaming parser over r.
// If r implements io.Closer, Close closes it.
func NewStreamingParser(r io.Reader, delimiter rune) *StreamingParser {
	reader := csv.NewReader(r)
	configureReader(reader, delimiter)

	parser := &StreamingParser{reader: reader}
	if c, ok := r.(io.Closer); ok {
		parser.src = c
	}
	return parser
}

// configureReader applies the reader settings shared by all inputs.
func configureReader(reader *csv.Reader, delimiter rune) {
	reader.Comma = delimiter

	// Rows only need to reach the configured coordinate columns.
	reader.FieldsPerRecord = -1

	// Legacy exports are not always strictly quoted.
	reader.LazyQuotes = true
}

// Next advances to the next row. Returns false when there are no more rows.
// Blank lines are skipped. A field that is not valid UTF-8 stops the parser
// with an IOError naming its line and column.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	row, err := p.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		p.err = fmt.Errorf("%w: error reading input after row %d: %w", types.ErrIO, p.rowNumber, err)
		return false
	}

	p.rowNumber, _ = p.reader.FieldPos(0)
	for i, field := range row {
		if !utf8.ValidString(field) {
			p.err = &types.RowError{
				Kind:   types.ErrIO,
				Row:    p.rowNumber,
				Column: i + 1,
				Value:  field,
				Err:    encoding.ErrInvalidUTF8,
			}
			return false
		}
	}

	p.currentRow = row
	return true
}

// Row returns the current row.
func (p *StreamingParser) Row() types.Row {
	return p.currentRow
}

// RowNumber returns the input line the current row starts on (1-indexed,
// header included, blank lines counted).
func (p *StreamingParser) RowNumber() int {
	return p.rowNumber
}

// Err returns any error that occurred during parsing.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close closes the underlying source, if it is closable.
func (p *StreamingParser) Close() error {
	if p.src == nil {
		return nil
	}
	return p.src.Close()
}

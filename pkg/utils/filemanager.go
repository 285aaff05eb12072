// =============================================================================
// Coordinate Converter - File Manager Utility
// =============================================================================
//
// This module provides file handling utilities for the converter, including:
//   - Opening input / creating output with a text encoding
//   - Falling back to the standard streams when no file is named
//   - Detecting spreadsheet files by extension
//   - Run identifiers for log correlation
//
// ENCODINGS:
//   Names are resolved with the WHATWG index first (the labels browsers
//   accept, e.g. "iso8859-1", "latin1", "windows-1252") and the IANA index
//   second. "utf-8" and its aliases pass bytes through untouched; the
//   delimited reader rejects invalid UTF-8 itself so it can name the row.
//
// OUTPUT:
//   Every Write is encoded as a whole before any of it is buffered, so a chunk
//   holding a character the target encoding cannot represent fails without
//   leaving a partial chunk in the output.
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// =============================================================================
// FILE FORMATS
// =============================================================================

// Format identifies how rows are stored in a file.
type Format int

const (
	// Delimited is character-separated text (the default).
	Delimited Format = iota

	// Spreadsheet is an Office Open XML workbook (.xlsx).
	Spreadsheet
)

// DetectFormat chooses the file format from the path's extension.
// Standard streams are always delimited text.
func DetectFormat(path string) Format {
	if IsStdStream(path) {
		return Delimited
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return Spreadsheet
	default:
		return Delimited
	}
}

// IsStdStream reports whether path names a standard stream rather than a file.
func IsStdStream(path string) bool {
	return path == "" || path == "-"
}

// =============================================================================
// ENCODINGS
// =============================================================================

// LookupEncoding resolves an encoding name.
//
// RETURNS:
//   - encoding.Nop for UTF-8; validation is left to the row reader.
//   - A ConfigurationError if the name is unknown.
func LookupEncoding(name string) (encoding.Encoding, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	switch norm {
	case "", "utf-8", "utf8", "utf_8", "unicode-1-1-utf-8":
		return encoding.Nop, nil
	}

	if enc, err := htmlindex.Get(norm); err == nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(norm); err == nil && enc != nil {
		return enc, nil
	}

	return nil, fmt.Errorf("%w: unknown text encoding %q", types.ErrConfiguration, name)
}

// =============================================================================
// OPENING FILES
// =============================================================================

// OpenInput opens path for reading and decodes it from the named encoding.
// An empty path or "-" reads standard input.
//
// RETURNS:
//   - A reader producing UTF-8 text.
//   - A ConfigurationError for an unknown encoding, or an IOError if the
//     file cannot be opened.
func OpenInput(path, encodingName string) (io.ReadCloser, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	var src io.ReadCloser
	if IsStdStream(path) {
		src = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: open input: %w", types.ErrIO, err)
		}
		src = f
	}

	if enc == encoding.Nop {
		return src, nil
	}
	return &decodedReader{
		Reader: transform.NewReader(src, enc.NewDecoder()),
		src:    src,
	}, nil
}

// CreateOutput creates path for writing and encodes UTF-8 text into the named
// encoding. An empty path or "-" writes standard output.
//
// Writes are buffered; Close flushes the buffer before closing the file. A
// Write that cannot be encoded returns an IOError and writes nothing.
func CreateOutput(path, encodingName string) (io.WriteCloser, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	var dst io.WriteCloser
	if IsStdStream(path) {
		dst = nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("%w: create output: %w", types.ErrIO, err)
		}
		dst = f
	}

	w := &encodedWriter{
		buf: bufio.NewWriter(dst),
		dst: dst,
	}
	if enc != encoding.Nop {
		w.enc = enc.NewEncoder()
	}
	return w, nil
}

// decodedReader closes the underlying source of a transform.Reader.
type decodedReader struct {
	io.Reader
	src io.Closer
}

func (r *decodedReader) Close() error {
	return r.src.Close()
}

// encodedWriter encodes each Write in full, then buffers it.
type encodedWriter struct {
	enc *encoding.Encoder // nil for UTF-8
	buf *bufio.Writer
	dst io.Closer
}

func (w *encodedWriter) Write(p []byte) (int, error) {
	out := p
	if w.enc != nil {
		var err error
		if out, err = w.enc.Bytes(p); err != nil {
			return 0, fmt.Errorf("%w: encode output: %w", types.ErrIO, err)
		}
	}
	if _, err := w.buf.Write(out); err != nil {
		return 0, fmt.Errorf("%w: write output: %w", types.ErrIO, err)
	}
	return len(p), nil
}

func (w *encodedWriter) Close() error {
	var flushErr error
	if err := w.buf.Flush(); err != nil {
		flushErr = fmt.Errorf("%w: flush output: %w", types.ErrIO, err)
	}
	return errors.Join(flushErr, w.dst.Close())
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// NewRunID returns a random identifier attached to every log line of a run.
func NewRunID() string {
	return uuid.New().String()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

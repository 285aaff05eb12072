// =============================================================================
// Coordinate Converter - Option Validation
// =============================================================================
//
// This module checks the effective configuration before any input is read,
// so that a bad option fails the run up front instead of on the first row.
//
// CHECKS:
//   - Column numbers are 1-based (label column may be 0 = disabled)
//   - Delimiters are single, usable characters
//   - Encodings are known
//   - Log level is recognized
//
// ERROR HANDLING:
//   - All problems are collected, not reported one at a time
//   - The combined error wraps types.ErrConfiguration
//
// Projection identifiers are checked by the projection registry.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/coordconv/internal/config"
	"github.com/ginjaninja78/coordconv/internal/csvparser"
	"github.com/ginjaninja78/coordconv/internal/types"
	"github.com/ginjaninja78/coordconv/pkg/utils"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single invalid option.
type ValidationError struct {
	// Field is the option that failed validation, e.g. "input.x_column".
	Field string

	// Value is the rejected value as text.
	Value string

	// Message is a human-readable description of the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: '%s')", e.Field, e.Message, e.Value)
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks every option of cfg.
//
// RETURNS:
//   - nil if the configuration is usable.
//   - A ConfigurationError listing every problem otherwise.
func Validate(cfg *config.Config) error {
	var errs []*ValidationError

	errs = append(errs, validateColumn("input.x_column", cfg.Input.XColumn, false)...)
	errs = append(errs, validateColumn("input.y_column", cfg.Input.YColumn, false)...)
	errs = append(errs, validateColumn("input.label_column", cfg.Input.LabelColumn, true)...)

	errs = append(errs, validateDelimiter("input.delimiter", cfg.Input.Delimiter)...)
	errs = append(errs, validateDelimiter("output.delimiter", cfg.Output.Delimiter)...)
	errs = append(errs, validateEncoding("input.encoding", cfg.Input.Encoding)...)
	errs = append(errs, validateEncoding("output.encoding", cfg.Output.Encoding)...)
	errs = append(errs, validateLogLevel(cfg.Log.Level)...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", types.ErrConfiguration, FormatErrors(errs))
}

// =============================================================================
// FIELD VALIDATORS
// =============================================================================

func validateColumn(field string, column int, optional bool) []*ValidationError {
	if optional && column == 0 {
		return nil
	}
	if column < 1 {
		return []*ValidationError{{
			Field:   field,
			Value:   fmt.Sprint(column),
			Message: "column numbers start at 1",
		}}
	}
	return nil
}

func validateDelimiter(field, value string) []*ValidationError {
	if _, err := csvparser.ParseDelimiter(value); err != nil {
		return []*ValidationError{{
			Field:   field,
			Value:   value,
			Message: "must be a single character other than a quote or line break",
		}}
	}
	return nil
}

func validateEncoding(field, value string) []*ValidationError {
	if _, err := utils.LookupEncoding(value); err != nil {
		return []*ValidationError{{
			Field:   field,
			Value:   value,
			Message: "unknown text encoding",
		}}
	}
	return nil
}

func validateLogLevel(value string) []*ValidationError {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return []*ValidationError{{
		Field:   "log.level",
		Value:   value,
		Message: "must be one of debug, info, warn, error",
	}}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors joins validation errors into a single line.
func FormatErrors(errs []*ValidationError) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

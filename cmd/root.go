// =============================================================================
// Coordinate Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the conversion itself:
//
//   coordconv [flags] [infile] [outfile]
//
// A missing file name (or "-") means standard input/output.
//
// COBRA CLI STRUCTURE:
//   rootCmd (coordconv)
//   └── versionCmd (coordconv version)
//
// ORDER OF EFFECTS:
//   1. Load configuration (defaults, YAML, environment, explicit flags)
//   2. Build the projection registry
//   3. Resolve projections (the invocation name overrides --ip/--op)
//   4. Validate options
//   5. Open input and read the header
//   6. Open output
//   7. Convert rows, then close the output on every path
//
// Nothing is written before the header has been read, so bad options or an
// empty input never leave an output file behind.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/coordconv/internal/config"
	"github.com/ginjaninja78/coordconv/internal/converter"
	"github.com/ginjaninja78/coordconv/internal/csvparser"
	"github.com/ginjaninja78/coordconv/internal/csvwriter"
	"github.com/ginjaninja78/coordconv/internal/geodesy"
	"github.com/ginjaninja78/coordconv/internal/logger"
	"github.com/ginjaninja78/coordconv/internal/projection"
	"github.com/ginjaninja78/coordconv/internal/types"
	"github.com/ginjaninja78/coordconv/internal/validation"
	"github.com/ginjaninja78/coordconv/internal/xlsxparser"
	"github.com/ginjaninja78/coordconv/internal/xlsxwriter"
	"github.com/ginjaninja78/coordconv/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// options holds the raw flag values. Only flags that were set explicitly
// override the loaded configuration.
type options struct {
	configFile string
	verbose    bool
	list       bool

	inProjection  string
	outProjection string
	xColumn       int
	yColumn       int
	labelColumn   int
	inDelimiter   string
	outDelimiter  string
	inEncoding    string
	outEncoding   string
	appendInput   bool
	crlf          bool
}

// longFlags are the multi-letter flag names that may be spelled with a single
// dash, e.g. "-ip R".
var longFlags = map[string]bool{
	"ip": true, "op": true, "ix": true, "iy": true, "il": true,
	"id": true, "od": true, "ie": true, "oe": true,
	"append": true, "list": true, "crlf": true, "config": true, "verbose": true,
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// newRootCmd builds the command tree. invocation is the name the program was
// started under; it may carry a projection pair such as "rt90_wgs84".
func newRootCmd(invocation string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "coordconv [infile] [outfile]",
		Short: "Convert coordinate columns between RT90, SWEREF99 and WGS84",
		Long: `coordconv reads delimited text (or an .xlsx workbook), converts one
coordinate pair per row between Swedish and global reference systems and
writes the result as delimited text (or an .xlsx workbook).

Supported systems:
  R  RT90      (EPSG:3021)
  S  SWEREF99  (EPSG:3006)
  W  WGS84     (EPSG:4326)

When started under a name such as "rt90_wgs84" the source and destination
systems are taken from the name.

Example Usage:
  coordconv -ip R -op W points.csv points_wgs84.csv
  coordconv --ix 2 --iy 3 --il 1 < in.csv > out.csv
  coordconv -l`,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, invocation, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (default "+config.DefaultConfigFile+" if present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&opts.list, "list", "l", false, "list supported projections / coordinate systems")

	flags.StringVar(&opts.inProjection, "ip", "R", "input coordinate projection, [R]T90, [S]WEREF99, [W]GS84")
	flags.StringVar(&opts.outProjection, "op", "S", "output coordinate projection, [R]T90, [S]WEREF99, [W]GS84")
	flags.IntVar(&opts.xColumn, "ix", 1, "input X (northing/latitude) column number")
	flags.IntVar(&opts.yColumn, "iy", 2, "input Y (easting/longitude) column number")
	flags.IntVar(&opts.labelColumn, "il", 0, "input label column number, written as the first output column")
	flags.StringVar(&opts.inDelimiter, "id", ";", "input column delimiter")
	flags.StringVar(&opts.outDelimiter, "od", ";", "output column delimiter")
	flags.StringVar(&opts.inEncoding, "ie", "utf-8", "input encoding, ex. 'iso8859-1' or 'utf-8'")
	flags.StringVar(&opts.outEncoding, "oe", "utf-8", "output encoding")
	flags.BoolVar(&opts.appendInput, "append", false, "copy input to output and add transformed columns")
	flags.BoolVar(&opts.crlf, "crlf", false, "terminate output lines with CRLF")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the command line. This is called by main.main().
func Execute() {
	rootCmd := newRootCmd(os.Args[0])
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// normalizeArgs rewrites single-dash long flags ("-ip", "-append=true") to
// their double-dash form. Arguments after "--" are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' {
			name, _, _ := strings.Cut(arg[1:], "=")
			if longFlags[name] {
				arg = "-" + arg
			}
		}
		out = append(out, arg)
	}
	return out
}

// =============================================================================
// CONVERSION
// =============================================================================

func run(cmd *cobra.Command, opts *options, invocation string, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	log := logger.Build(logger.Config{
		Level:     cfg.Log.Level,
		Console:   cfg.Log.Console,
		Component: "coordconv",
		RunID:     utils.NewRunID(),
	}, cmd.ErrOrStderr())

	ctx := geodesy.NewContext()
	defer ctx.Close()

	registry, err := projection.NewRegistry(ctx)
	if err != nil {
		return err
	}

	if opts.list {
		return registry.List(cmd.OutOrStdout())
	}

	src, dst, err := resolveProjections(registry, cfg, invocation)
	if err != nil {
		return err
	}
	if err := validation.Validate(cfg); err != nil {
		return err
	}

	inPath, outPath := "", ""
	if len(args) > 0 {
		inPath = args[0]
	}
	if len(args) > 1 {
		outPath = args[1]
	}

	log.Info().
		Str("input", displayPath(inPath)).
		Str("output", displayPath(outPath)).
		Str("source", src.Name).
		Str("dest", dst.Name).
		Int("x_column", cfg.Input.XColumn).
		Int("y_column", cfg.Input.YColumn).
		Msg("starting conversion")

	reader, err := openReader(inPath, cfg)
	if err != nil {
		return err
	}
	defer reader.Close()

	conv := converter.New(converter.Options{
		Source:      src,
		Dest:        dst,
		XColumn:     cfg.Input.XColumn,
		YColumn:     cfg.Input.YColumn,
		LabelColumn: cfg.Input.LabelColumn,
		Append:      cfg.Append,
	}, reader, log)

	// Read the header before anything is created on the output side.
	if _, err := conv.Header(); err != nil {
		return err
	}

	writer, err := openWriter(outPath, cfg)
	if err != nil {
		return err
	}

	result, runErr := conv.Run(writer)
	closeErr := writer.Close()
	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return closeErr
	}

	log.Info().
		Int("rows_written", result.RowsWritten).
		Dur("elapsed", result.Elapsed).
		Msg("conversion complete")
	return nil
}

// loadConfig layers defaults, the YAML file, the environment and explicit
// flags, in that order.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ip") {
		cfg.Input.Projection = opts.inProjection
	}
	if flags.Changed("op") {
		cfg.Output.Projection = opts.outProjection
	}
	if flags.Changed("ix") {
		cfg.Input.XColumn = opts.xColumn
	}
	if flags.Changed("iy") {
		cfg.Input.YColumn = opts.yColumn
	}
	if flags.Changed("il") {
		cfg.Input.LabelColumn = opts.labelColumn
	}
	if flags.Changed("id") {
		cfg.Input.Delimiter = opts.inDelimiter
	}
	if flags.Changed("od") {
		cfg.Output.Delimiter = opts.outDelimiter
	}
	if flags.Changed("ie") {
		cfg.Input.Encoding = opts.inEncoding
	}
	if flags.Changed("oe") {
		cfg.Output.Encoding = opts.outEncoding
	}
	if flags.Changed("append") {
		cfg.Append = opts.appendInput
	}
	if flags.Changed("crlf") {
		cfg.Output.CRLF = opts.crlf
	}
	if opts.verbose {
		cfg.Log.Level = zerolog.DebugLevel.String()
	}
	return cfg, nil
}

// resolveProjections applies the invocation-name hint, falling back to the
// configured projections.
func resolveProjections(registry *projection.Registry, cfg *config.Config, invocation string) (src, dst *projection.Definition, err error) {
	src, dst, ok, err := registry.FromInvocation(invocation)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return src, dst, nil
	}

	if src, err = registry.Lookup(cfg.Input.Projection); err != nil {
		return nil, nil, fmt.Errorf("input projection: %w", err)
	}
	if dst, err = registry.Lookup(cfg.Output.Projection); err != nil {
		return nil, nil, fmt.Errorf("output projection: %w", err)
	}
	return src, dst, nil
}

// =============================================================================
// INPUT AND OUTPUT
// =============================================================================

func openReader(path string, cfg *config.Config) (types.RowReader, error) {
	if utils.DetectFormat(path) == utils.Spreadsheet {
		// Workbooks are binary; the text encoding does not apply.
		src, err := utils.OpenInput(path, "utf-8")
		if err != nil {
			return nil, err
		}
		r, err := xlsxparser.Open(src)
		if err != nil {
			src.Close()
			return nil, err
		}
		return r, nil
	}

	delimiter, err := csvparser.ParseDelimiter(cfg.Input.Delimiter)
	if err != nil {
		return nil, err
	}
	src, err := utils.OpenInput(path, cfg.Input.Encoding)
	if err != nil {
		return nil, err
	}
	return csvparser.NewStreamingParser(src, delimiter), nil
}

func openWriter(path string, cfg *config.Config) (types.RowWriter, error) {
	if utils.DetectFormat(path) == utils.Spreadsheet {
		dst, err := utils.CreateOutput(path, "utf-8")
		if err != nil {
			return nil, err
		}
		w, err := xlsxwriter.New(dst)
		if err != nil {
			dst.Close()
			return nil, err
		}
		return w, nil
	}

	delimiter, err := csvparser.ParseDelimiter(cfg.Output.Delimiter)
	if err != nil {
		return nil, err
	}
	dst, err := utils.CreateOutput(path, cfg.Output.Encoding)
	if err != nil {
		return nil, err
	}
	return csvwriter.New(dst, csvwriter.Options{Delimiter: delimiter, CRLF: cfg.Output.CRLF}), nil
}

func displayPath(path string) string {
	if utils.IsStdStream(path) {
		return "-"
	}
	return path
}

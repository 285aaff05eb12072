// =============================================================================
// Coordinate Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the coordconv CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   coordconv [flags] [infile] [outfile]  - Convert a coordinate file
//   coordconv -l                          - List supported coordinate systems
//   coordconv version                     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (projections, geodesy, readers, writers)
//   - pkg/           : Shared file and encoding utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/coordconv/cmd"
)

func main() {
	cmd.Execute()
}

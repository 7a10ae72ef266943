// Package cmd implements the command-line interface for the availability
// engine.
//
// This package provides the following commands:
//   - availability: Aggregate busy periods and print per-day availability
//   - busy: Print only the merged busy periods for a date range
//   - version: Display version information
//
// The availability command is the default command when no subcommand is
// specified.
package cmd

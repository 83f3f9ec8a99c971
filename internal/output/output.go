// Package output handles formatting CLI output as table, compact, or JSON.
package output

import "os"

// Format represents an output format.
type Format int

const (
	// FormatTable is the default human-readable format.
	FormatTable Format = iota
	// FormatJSON outputs machine-readable JSON.
	FormatJSON
	// FormatCompact outputs one line per record.
	FormatCompact
)

// Detect returns the output format from flags and environment. Flags win
// over SLIDEDECK_OUTPUT; the default is the table format.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	if tableFlag {
		return FormatTable
	}
	if compactFlag {
		return FormatCompact
	}

	switch os.Getenv("SLIDEDECK_OUTPUT") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	case "compact", "oneline":
		return FormatCompact
	}

	return FormatTable
}

// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"sort"

	"recipe-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Options tune how amounts and styling are rendered
type Options struct {
	// Places is the number of decimal places for costs
	Places int32

	// NoColor disables terminal styling
	NoColor bool
}

// DefaultOptions returns two decimal places with color
func DefaultOptions() Options {
	return Options{Places: 2}
}

// New returns the formatter for format
func New(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return &CLIFormatter{opts: opts}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatMarkdown, "md":
		return &MarkdownFormatter{opts: opts}, nil
	default:
		return nil, errors.NotSupported("output format " + string(format))
	}
}

// Formats lists the supported format names
func Formats() []string {
	names := []string{string(FormatCLI), string(FormatJSON), string(FormatMarkdown)}
	sort.Strings(names)
	return names
}

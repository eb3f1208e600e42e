// Package scanner defines the interface for recipe dataset scanners.
// Scanners read a persisted dataset into the ordered entry list.
// NO resolution logic belongs here.
package scanner

import (
	"context"
	"fmt"

	"recipe-cost/core/types"
)

// Scanner parses a recipe dataset into entries
type Scanner interface {
	// Name returns the scanner identifier, also used as the format name
	Name() string

	// CanScan determines if this scanner can handle the path
	CanScan(path string) bool

	// Scan parses the dataset and returns its entries in file order
	Scan(ctx context.Context, path string) (*ScanResult, error)
}

// ScanResult contains the output of a scan operation
type ScanResult struct {
	// Entries are the dataset records in input order
	Entries []types.Entry `json:"entries"`

	// Files are the files that contributed entries
	Files []string `json:"files"`

	// Warnings are non-fatal issues encountered
	Warnings []ScanWarning `json:"warnings,omitempty"`
}

// Warn records a non-fatal issue
func (r *ScanResult) Warn(file string, line int, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, ScanWarning{
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// ScanWarning is a non-fatal issue
type ScanWarning struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// String returns file:line: message
func (w ScanWarning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

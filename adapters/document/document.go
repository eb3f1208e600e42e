// Package document provides JSON, YAML and TOML recipe datasets.
//
// All three share one shape:
//
//	entries:
//	  - {kind: atomic, name: milk, cost: 3}
//	  - {kind: compound, name: cake, ingredients: [{name: milk, quantity: 2}]}
//
// JSON additionally accepts the tuple form
// [["atomic","milk",3],["compound","cake",[["milk",2]]]].
package document

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"recipe-cost/core/scanner"
	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

// Format names a document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

type document struct {
	Entries []entry `json:"entries" yaml:"entries" toml:"entries"`
}

type entry struct {
	Kind        string             `json:"kind" yaml:"kind" toml:"kind"`
	Name        string             `json:"name" yaml:"name" toml:"name"`
	Cost        *amount            `json:"cost,omitempty" yaml:"cost,omitempty" toml:"cost,omitempty"`
	Ingredients []types.Ingredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty" toml:"ingredients,omitempty"`
}

// Scanner implements scanner.Scanner for one document format
type Scanner struct {
	format     Format
	extensions []string
}

// NewScanner creates a scanner for format
func NewScanner(format Format) *Scanner {
	s := &Scanner{format: format}
	switch format {
	case FormatJSON:
		s.extensions = []string{".json"}
	case FormatYAML:
		s.extensions = []string{".yaml", ".yml"}
	case FormatTOML:
		s.extensions = []string{".toml"}
	}
	return s
}

// Name returns the scanner name
func (s *Scanner) Name() string {
	return string(s.format)
}

// CanScan accepts regular files with a matching extension
func (s *Scanner) CanScan(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(path)))
}

// Scan decodes the file into entries
func (s *Scanner) Scan(ctx context.Context, path string) (*scanner.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read %s", path)
	}

	entries, err := s.Decode(data)
	if err != nil {
		return nil, errors.Parsing("failed to decode "+path, err).WithContext("format", s.format)
	}

	result := &scanner.ScanResult{Files: []string{path}}
	for i, e := range entries {
		if !e.Kind.Valid() {
			result.Warn(path, 0, "entry %d (%s): unrecognized kind %q", i, e.Name, e.Kind)
		}
	}
	result.Entries = entries
	return result, nil
}

// Decode parses raw document bytes into entries
func (s *Scanner) Decode(data []byte) ([]types.Entry, error) {
	var doc document
	switch s.format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			return decodeTuples(trimmed)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NotSupported("document format " + string(s.format))
	}
	return doc.toEntries(), nil
}

func (d document) toEntries() []types.Entry {
	entries := make([]types.Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		out := types.Entry{Kind: types.Kind(e.Kind), Name: e.Name, Ingredients: e.Ingredients}
		if e.Cost != nil {
			out.Cost = e.Cost.Decimal()
		}
		entries = append(entries, out)
	}
	return entries
}

func init() {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		scanner.Register(NewScanner(f))
	}
}

// Package hcl provides the native HCL recipe dataset format.
//
//	atomic "milk" { cost = 3 }
//	compound "cake" {
//	  ingredient "milk"  { quantity = 2 }
//	  ingredient "sugar" { quantity = 1 }
//	}
//
// Blocks become entries in file order. Blocks of any other type are kept as
// entries of that kind so the index builder can ignore them.
package hcl

import (
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"recipe-cost/core/scanner"
	"recipe-cost/core/types"
	"recipe-cost/internal/errors"
)

const extension = ".hcl"

// Scanner implements the scanner.Scanner interface for HCL datasets
type Scanner struct{}

// NewScanner creates a new HCL scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// Name returns the scanner name
func (s *Scanner) Name() string {
	return "hcl"
}

// CanScan accepts .hcl files and directories containing them
func (s *Scanner) CanScan(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return strings.HasSuffix(path, extension)
	}
	files, err := s.files(path)
	return err == nil && len(files) > 0
}

// Scan parses one .hcl file, or every .hcl file under a directory in lexical order
func (s *Scanner) Scan(ctx context.Context, path string) (*scanner.ScanResult, error) {
	files, err := s.files(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to list dataset %s", path)
	}

	result := &scanner.ScanResult{}
	parser := hclparse.NewParser()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.parseFile(parser, file, result); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, file)
	}
	return result, nil
}

func (s *Scanner) files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, extension) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func (s *Scanner) parseFile(parser *hclparse.Parser, file string, result *scanner.ScanResult) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(errors.TypeInput, err, "failed to read %s", file)
	}

	hclFile, diags := parser.ParseHCL(src, file)
	if diags.HasErrors() {
		return diagError(file, diags)
	}

	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return errors.Newf(errors.TypeParsing, "%s: not native HCL syntax", file)
	}

	for _, name := range slices.Sorted(maps.Keys(body.Attributes)) {
		attr := body.Attributes[name]
		result.Warn(file, attr.SrcRange.Start.Line, "ignoring top-level attribute %q", name)
	}

	for _, block := range body.Blocks {
		entry, err := s.parseBlock(file, block, result)
		if err != nil {
			return err
		}
		result.Entries = append(result.Entries, entry)
	}
	return nil
}

func (s *Scanner) parseBlock(file string, block *hclsyntax.Block, result *scanner.ScanResult) (types.Entry, error) {
	line := block.TypeRange.Start.Line
	name := ""
	if len(block.Labels) > 0 {
		name = block.Labels[0]
	}

	switch types.Kind(block.Type) {
	case types.KindAtomic:
		if len(block.Labels) != 1 {
			return types.Entry{}, errors.Newf(errors.TypeParsing, "%s:%d: atomic block needs exactly one label", file, line)
		}
		attr, ok := block.Body.Attributes["cost"]
		if !ok {
			return types.Entry{}, errors.Newf(errors.TypeParsing, "%s:%d: atomic %q has no cost", file, line, name)
		}
		cost, err := decimalAttr(attr)
		if err != nil {
			return types.Entry{}, errors.Wrapf(errors.TypeParsing, err, "%s:%d: atomic %q cost", file, line, name)
		}
		return types.Atomic(name, cost), nil

	case types.KindCompound:
		if len(block.Labels) != 1 {
			return types.Entry{}, errors.Newf(errors.TypeParsing, "%s:%d: compound block needs exactly one label", file, line)
		}
		ingredients, err := s.parseIngredients(file, block.Body, result)
		if err != nil {
			return types.Entry{}, err
		}
		return types.Compound(name, ingredients...), nil

	default:
		result.Warn(file, line, "unrecognized block type %q", block.Type)
		return types.Entry{Kind: types.Kind(block.Type), Name: name}, nil
	}
}

func (s *Scanner) parseIngredients(file string, body *hclsyntax.Body, result *scanner.ScanResult) ([]types.Ingredient, error) {
	ingredients := make([]types.Ingredient, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		line := block.TypeRange.Start.Line
		if block.Type != "ingredient" {
			result.Warn(file, line, "ignoring %q block inside compound", block.Type)
			continue
		}
		if len(block.Labels) != 1 {
			return nil, errors.Newf(errors.TypeParsing, "%s:%d: ingredient block needs exactly one label", file, line)
		}

		ing := types.Ingredient{Name: block.Labels[0], Quantity: 1}
		if attr, ok := block.Body.Attributes["quantity"]; ok {
			qty, err := intAttr(attr)
			if err != nil {
				return nil, errors.Wrapf(errors.TypeParsing, err, "%s:%d: ingredient %q quantity", file, line, ing.Name)
			}
			ing.Quantity = qty
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

func diagError(file string, diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		return errors.Parsing(diag.Summary+": "+diag.Detail, diags).
			WithContext("file", file).
			WithContext("line", line)
	}
	return errors.Parsing("invalid HCL", diags).WithContext("file", file)
}

func init() {
	scanner.Register(NewScanner())
}
